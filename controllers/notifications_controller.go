package controllers

import (
	"errors"
	"net/http"
	"strings"

	"Wildography/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the notifications of ?userId, newest first. An id
// that matches no user has no notifications.
func (server *Server) GetNotifications(c *gin.Context) {
	identifier := strings.TrimSpace(c.Query("userId"))
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	db := server.DB.WithContext(c.Request.Context())

	recipient, err := resolveUserByIdentifier(db, identifier)
	if errors.Is(err, models.ErrUserNotFound) {
		respondOK(c, "Notifications fetched", []NotificationDTO{})
		return
	}
	if err != nil {
		server.respondError(c, err, "Error fetching notifications")
		return
	}

	notifications, err := (&models.Notification{}).FindByRecipient(db, recipient.ID)
	if err != nil {
		server.respondError(c, err, "Error fetching notifications")
		return
	}
	out := make([]NotificationDTO, len(notifications))
	for i := range notifications {
		out[i] = notificationToDTO(&notifications[i], recipient.PublicID)
	}
	respondOK(c, "Notifications fetched", out)
}
