package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

// PortalHandler serves the client portal and its back-office mirror from the
// server-side database. Every route answers 503 once the database has been
// declared unreachable.
type PortalHandler struct {
	data  ports.PortalDataService
	audit ActivityQueue
}

// ActivityQueue accepts audit entries for the portal database. Enqueue must
// not block and must not report failures to the caller.
type ActivityQueue interface {
	Enqueue(a domain.Activity)
}

func NewPortalHandler(data ports.PortalDataService, audit ActivityQueue) *PortalHandler {
	return &PortalHandler{data: data, audit: audit}
}

// --- Client-facing routes (/v1/portal) ---

// Client handles GET /v1/portal/client.
//
// @Summary      The caller's client record
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Client
// @Failure      503  {object}  errorResponse
// @Router       /v1/portal/client [get]
func (h *PortalHandler) Client(c echo.Context) error {
	_, clientID, err := portalScope(c)
	if err != nil {
		return err
	}
	cl, err := h.data.GetClient(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Projects handles GET /v1/portal/projects.
//
// @Summary      The caller's projects
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Project
// @Failure      503  {object}  errorResponse
// @Router       /v1/portal/projects [get]
func (h *PortalHandler) Projects(c echo.Context) error {
	_, clientID, err := portalScope(c)
	if err != nil {
		return err
	}
	projects, err := h.data.ProjectsByClient(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Activities handles GET /v1/portal/activities.
func (h *PortalHandler) Activities(c echo.Context) error {
	_, clientID, err := portalScope(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	entries, err := h.data.RecentActivities(c.Request().Context(), clientID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Notifications handles GET /v1/portal/notifications.
func (h *PortalHandler) Notifications(c echo.Context) error {
	userID, _, err := portalScope(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	items, err := h.data.NotificationsByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// MarkNotificationRead handles POST /v1/portal/notifications/:id/read. Only
// the caller's own notifications can be marked; any other id is a 404.
func (h *PortalHandler) MarkNotificationRead(c echo.Context) error {
	userID, _, err := portalScope(c)
	if err != nil {
		return err
	}
	if err := h.data.MarkNotificationRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Back-office mirror (/v1/remote) ---

// ListClients handles GET /v1/remote/clients.
func (h *PortalHandler) ListClients(c echo.Context) error {
	clients, err := h.data.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /v1/remote/clients/:id.
func (h *PortalHandler) GetClient(c echo.Context) error {
	cl, err := h.data.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// CreateClient handles POST /v1/remote/clients.
//
// @Summary      Create a client in the portal database
// @Tags         remote
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/remote/clients [post]
func (h *PortalHandler) CreateClient(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req createClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl := &domain.Client{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       domain.NormalizeEmail(req.Email),
		Phone:       req.Phone,
		Address:     req.Address,
		LogoURL:     req.LogoURL,
		Status:      domain.ClientStatus(req.Status),
		UserID:      req.UserID,
	}
	ctx := c.Request().Context()
	if err := h.data.CreateClient(ctx, cl); err != nil {
		return err
	}
	h.audit.Enqueue(domain.Activity{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityClient),
		EntityType: domain.EntityClient,
		EntityID:   cl.ID,
		UserID:     actor,
		ClientID:   cl.ID,
		Details:    domain.CreatedDetails(domain.EntitySnapshot{Name: cl.Name, Email: cl.Email}),
	})
	return c.JSON(http.StatusCreated, cl)
}

// DeleteClient handles DELETE /v1/remote/clients/:id.
func (h *PortalHandler) DeleteClient(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.data.DeleteClient(ctx, id); err != nil {
		return err
	}
	h.audit.Enqueue(domain.Activity{
		Action:     domain.ActionTag(domain.VerbDelete, domain.EntityClient),
		EntityType: domain.EntityClient,
		EntityID:   id,
		UserID:     actor,
		ClientID:   id,
	})
	return c.NoContent(http.StatusNoContent)
}

// ClientProjects handles GET /v1/remote/clients/:id/projects.
func (h *PortalHandler) ClientProjects(c echo.Context) error {
	projects, err := h.data.ProjectsByClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// CreateProject handles POST /v1/remote/projects.
func (h *PortalHandler) CreateProject(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "end_date must not be before start_date")
	}
	p := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
		ClientID:    req.ClientID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      req.Budget,
		ManagerID:   req.ManagerID,
	}
	ctx := c.Request().Context()
	if err := h.data.CreateProject(ctx, p); err != nil {
		return err
	}
	h.audit.Enqueue(domain.Activity{
		Action:     domain.ActionTag(domain.VerbCreate, domain.EntityProject),
		EntityType: domain.EntityProject,
		EntityID:   p.ID,
		UserID:     actor,
		ClientID:   p.ClientID,
		ProjectID:  p.ID,
		Details:    domain.CreatedDetails(domain.EntitySnapshot{Name: p.Name}),
	})
	return c.JSON(http.StatusCreated, p)
}

// RecentActivities handles GET /v1/remote/activities. An empty client_id
// spans every client.
func (h *PortalHandler) RecentActivities(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	entries, err := h.data.RecentActivities(c.Request().Context(), c.QueryParam("client_id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// CreateNotification handles POST /v1/remote/notifications.
func (h *PortalHandler) CreateNotification(c echo.Context) error {
	var req createNotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	n := &domain.Notification{
		UserID:   req.UserID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Link:     req.Link,
	}
	if err := h.data.CreateNotification(c.Request().Context(), n); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

// ClientStats handles GET /v1/remote/stats/clients.
func (h *PortalHandler) ClientStats(c echo.Context) error {
	s, err := h.data.ClientStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
