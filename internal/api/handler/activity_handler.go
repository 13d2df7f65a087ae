package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/ports"
)

// ActivityHandler serves the audit trail. It is read-only; entries are
// written as a side effect of mutations.
type ActivityHandler struct {
	log ports.ActivityLog
}

func NewActivityHandler(log ports.ActivityLog) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// List handles GET /v1/activities.
//
// @Summary      Read the audit trail
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query    string  false  "Entries of one client"
// @Param        user_id    query    string  false  "Entries made by one user"
// @Param        limit      query    int     false  "Newest N entries when no filter is given"
// @Success      200        {array}  domain.Activity
// @Router       /v1/activities [get]
func (h *ActivityHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		entries []domain.Activity
		err     error
	)
	switch {
	case c.QueryParam("client_id") != "":
		entries, err = h.log.ByClient(ctx, c.QueryParam("client_id"))
	case c.QueryParam("user_id") != "":
		entries, err = h.log.ByUser(ctx, c.QueryParam("user_id"))
	default:
		limit, lerr := limitParam(c)
		if lerr != nil {
			return lerr
		}
		entries, err = h.log.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// ByEntity handles GET /v1/activities/:entity_type/:entity_id.
//
// @Summary      History of one record
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        entity_type  path     string  true  "user, client, project or resource"
// @Param        entity_id    path     string  true  "Record id"
// @Success      200          {array}  domain.Activity
// @Router       /v1/activities/{entity_type}/{entity_id} [get]
func (h *ActivityHandler) ByEntity(c echo.Context) error {
	entries, err := h.log.ByEntity(c.Request().Context(), domain.EntityType(c.Param("entity_type")), c.Param("entity_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
