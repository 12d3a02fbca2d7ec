package handlers

import (
	"net/http"
	"strconv"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/repositories"

	"github.com/gin-gonic/gin"
)

// Notification routes are admin-session gated and always scoped to the
// authenticated caller's own notifications. "Already read" and "already gone"
// are informational successes, not errors.

// GET /api/admin/notifications
func ListNotifications(c *gin.Context) {
	repo := repositories.NotificationRepo{}
	items, err := repo.List(middleware.GetUserID(c), queryInt(c, "limit", 50))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": items})
}

// GET /api/admin/notifications/unread-count
func UnreadNotificationCount(c *gin.Context) {
	repo := repositories.NotificationRepo{}
	count, err := repo.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread_count": count})
}

// PUT /api/admin/notifications/:id/read — :id is an integer or "all".
func MarkNotificationRead(c *gin.Context) {
	repo := repositories.NotificationRepo{}
	recipientID := middleware.GetUserID(c)

	if c.Param("id") == "all" {
		affected, err := repo.MarkAllRead(recipientID)
		if err != nil {
			RespondDomainError(c, domain.InternalError{Err: err})
			return
		}
		RespondOK(c, markReadMessage(affected), nil)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "Notification id must be a positive integer or \"all\"")
		return
	}
	affected, err := repo.MarkRead(recipientID, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	RespondOK(c, markReadMessage(affected), nil)
}

// DELETE /api/admin/notifications/:id — :id is an integer or "all".
func DeleteNotification(c *gin.Context) {
	repo := repositories.NotificationRepo{}
	recipientID := middleware.GetUserID(c)

	if c.Param("id") == "all" {
		if _, err := repo.DeleteAll(recipientID); err != nil {
			RespondDomainError(c, domain.InternalError{Err: err})
			return
		}
		RespondOK(c, "Notifications deleted", nil)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "Notification id must be a positive integer or \"all\"")
		return
	}
	if _, err := repo.Delete(recipientID, id); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	RespondOK(c, "Notification deleted", nil)
}

func markReadMessage(affected int64) string {
	if affected == 0 {
		return "Already read"
	}
	return "Marked as read"
}
