package handler

import (
	"net/http"

	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the per-user notification feed
type NotificationHandler struct {
	notifications service.NotificationManager
}

// NewNotificationHandler creates the notification handler
func NewNotificationHandler(notifications service.NotificationManager) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	notifications, err := h.notifications.ListForUser(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// Unread handles GET /api/v1/notifications/unread
func (h *NotificationHandler) Unread(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	notifications, err := h.notifications.UnreadForUser(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// UnreadCount handles GET /api/v1/notifications/unread/count
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	count, err := h.notifications.UnreadCount(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkRead handles PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	notification, err := h.notifications.MarkRead(requestContext(c), id, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notification)
}

// MarkAllRead handles PUT /api/v1/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	if err := h.notifications.MarkAllRead(requestContext(c), claims.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked read"})
}

// DeleteRead handles DELETE /api/v1/notifications/read
func (h *NotificationHandler) DeleteRead(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	if err := h.notifications.DeleteRead(requestContext(c), claims.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "read notifications deleted"})
}
