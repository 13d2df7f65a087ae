package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
	"github.com/clientdesk/portal/internal/pkg/credential"
)

// ClientHandler handles HTTP requests for client organisations.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        status  query    string  false  "Filter by status"
// @Success      200     {array}  domain.Client
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		clients []domain.Client
		err     error
	)
	if status := c.QueryParam("status"); status != "" {
		clients, err = h.service.GetByStatus(ctx, domain.ClientStatus(status))
	} else {
		clients, err = h.service.GetAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  domain.Client
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	cl, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Create handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cl)
}

// CreateWithAccount handles POST /v1/clients/with-account. The portal login
// takes the client's name and email and always gets the client role.
//
// @Summary      Create a client together with its portal account
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientWithAccountRequest  true  "Client and password"
// @Success      201   {object}  clientWithAccountResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/clients/with-account [post]
func (h *ClientHandler) CreateWithAccount(c echo.Context) error {
	var req createClientWithAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	hash, err := credential.Hash(req.Password)
	if err != nil {
		return err
	}

	cl, u, err := h.service.CreateWithAccount(c.Request().Context(), req.input(), ports.CreateUserInput{
		PasswordHash: hash,
		Permissions:  req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, clientWithAccountResponse{Client: cl, User: toUserResponse(u)})
}

// Update handles PATCH /v1/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Router       /v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := ports.ClientPatch{
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		LogoURL:     req.LogoURL,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		st := domain.ClientStatus(*req.Status)
		patch.Status = &st
	}

	cl, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// UpdateStatus handles PUT /v1/clients/:id/status.
func (h *ClientHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cl, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.ClientStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

// Delete handles DELETE /v1/clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "Client id"
// @Success      204
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r createClientRequest) input() ports.CreateClientInput {
	return ports.CreateClientInput{
		Name:        r.Name,
		CompanyName: r.CompanyName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		LogoURL:     r.LogoURL,
		Status:      domain.ClientStatus(r.Status),
		UserID:      r.UserID,
	}
}
