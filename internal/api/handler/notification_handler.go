package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientdesk/portal/internal/core/ports"
)

// NotificationHandler serves the caller's inbox and lets staff alert others.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Mine handles GET /v1/notifications.
//
// @Summary      The caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Page size"
// @Success      200    {array}  domain.Notification
// @Router       /v1/notifications [get]
func (h *NotificationHandler) Mine(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	items, err := h.service.ByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// UnreadCount handles GET /v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	n, err := h.service.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// Create handles POST /v1/notifications.
//
// @Summary      Send a notification to a user
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNotificationRequest  true  "Notification"
// @Success      201   {object}  domain.Notification
// @Router       /v1/notifications [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	var req createNotificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	n, err := h.service.Create(c.Request().Context(), ports.CreateNotificationInput{
		UserID:   req.UserID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Link:     req.Link,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

// MarkRead handles POST /v1/notifications/:id/read. Marking twice is not an error.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	n, err := h.service.MarkRead(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead handles POST /v1/notifications/read-all for the caller's inbox.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	n, err := h.service.MarkAllReadForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

// ByClient handles GET /v1/clients/:id/notifications.
func (h *NotificationHandler) ByClient(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	items, err := h.service.ByClient(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// MarkAllReadForClient handles POST /v1/clients/:id/notifications/read-all.
func (h *NotificationHandler) MarkAllReadForClient(c echo.Context) error {
	n, err := h.service.MarkAllReadForClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}
