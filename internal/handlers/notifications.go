package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/utils"
)

// NotificationHandler exposes a user's notification history.
type NotificationHandler struct {
	Notifications *repository.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

// List handles GET /notifications for the authenticated user.
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	notifications, err := h.Notifications.ForUser(c.Request.Context(), user.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, "Notifications fetched successfully", notifications)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.Notifications.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, "Unread count fetched successfully", gin.H{"count": count})
}
