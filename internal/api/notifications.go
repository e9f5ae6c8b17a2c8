package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ojas-Arora/SoundAware/internal/errors"
	"github.com/Ojas-Arora/SoundAware/internal/notification"
)

// ListNotifications returns the capped notification list and unread count.
func (c *Controller) ListNotifications(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"notifications": c.Notifier.List(),
		"unread":        c.Notifier.UnreadCount(),
	})
}

// MarkNotificationRead marks one notification as read.
func (c *Controller) MarkNotificationRead(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := c.Notifier.MarkRead(id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Controller) MarkAllNotificationsRead(ctx echo.Context) error {
	c.Notifier.MarkAllRead()
	return ctx.NoContent(http.StatusNoContent)
}

// ClearNotifications removes all notifications.
func (c *Controller) ClearNotifications(ctx echo.Context) error {
	c.Notifier.Clear()
	return ctx.NoContent(http.StatusNoContent)
}
