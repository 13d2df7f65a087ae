package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/ports"
)

// StatsHandler serves derived counts for the back-office dashboard.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Dashboard handles GET /v1/stats.
//
// @Summary      Every breakdown at once
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Dashboard
// @Router       /v1/stats [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	d, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Clients handles GET /v1/stats/clients.
func (h *StatsHandler) Clients(c echo.Context) error {
	s, err := h.service.ClientStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Projects handles GET /v1/stats/projects.
func (h *StatsHandler) Projects(c echo.Context) error {
	s, err := h.service.ProjectStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Resources handles GET /v1/stats/resources.
func (h *StatsHandler) Resources(c echo.Context) error {
	s, err := h.service.ResourceStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Users handles GET /v1/stats/users.
func (h *StatsHandler) Users(c echo.Context) error {
	s, err := h.service.UserStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
