package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

// ResourceHandler handles HTTP requests for shared resources.
type ResourceHandler struct {
	service ports.ResourceService
}

func NewResourceHandler(service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// List handles GET /v1/resources. ?scope=global returns only resources
// shared with every client; ?client_id= returns one client's resources.
//
// @Summary      List resources
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query    string  false  "Only resources of this client"
// @Param        scope      query    string  false  "global"
// @Success      200        {array}  domain.Resource
// @Router       /v1/resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		resources []domain.Resource
		err       error
	)
	switch {
	case c.QueryParam("scope") == "global":
		resources, err = h.service.GetGlobal(ctx)
	case c.QueryParam("client_id") != "":
		resources, err = h.service.GetByClientID(ctx, c.QueryParam("client_id"))
	default:
		resources, err = h.service.GetAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resources)
}

// Get handles GET /v1/resources/:id.
func (h *ResourceHandler) Get(c echo.Context) error {
	r, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Create handles POST /v1/resources.
//
// @Summary      Create a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResourceRequest  true  "Resource"
// @Success      201   {object}  domain.Resource
// @Router       /v1/resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	var req createResourceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), ports.CreateResourceInput{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Type:        domain.ResourceType(req.Type),
		ClientID:    req.ClientID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PATCH /v1/resources/:id.
func (h *ResourceHandler) Update(c echo.Context) error {
	var req updateResourceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := ports.ResourcePatch{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		ClientID:    req.ClientID,
	}
	if req.Type != nil {
		t := domain.ResourceType(*req.Type)
		patch.Type = &t
	}

	r, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /v1/resources/:id.
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
