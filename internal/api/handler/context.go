package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/api/middleware"
	"github.com/clientdesk/portal/internal/core/domain"
)

// actorID returns the authenticated user id set by the Auth middleware.
func actorID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// portalScope extracts the identity of a portal caller and performs a
// fast-fail check before any data call: the token must carry the client role
// and name the client it acts for.
func portalScope(c echo.Context) (userID, clientID string, err error) {
	userID, err = actorID(c)
	if err != nil {
		return "", "", err
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	clientID, _ = c.Get(middleware.CtxClientID).(string)
	if domain.Role(role) != domain.RoleClient || clientID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing client identity")
	}
	return userID, clientID, nil
}

// limitParam reads the optional ?limit= query parameter. Absent means zero,
// which every list operation treats as its default page size.
func limitParam(c echo.Context) (int, error) {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	if limit < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must not be negative")
	}
	return limit, nil
}
