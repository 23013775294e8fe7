package handler

import (
	"net/http"
	"strconv"
	"time"

	"teamtodo/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepository
	users         repository.UserRepositoryInterface
}

func NewNotificationHandler(notifications *repository.NotificationRepository, users repository.UserRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	TaskID    string    `json:"task_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the caller's notifications newest first
// @Summary      List notifications
// @Tags         Notifications
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200 {object} map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := h.notifications.ListByRecipient(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	unread, err := h.notifications.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	response := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		item := NotificationResponse{
			ID:        n.ID.String(),
			Kind:      n.Kind,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.TaskID != nil {
			item.TaskID = n.TaskID.String()
		}
		response[i] = item
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": response,
		"unread_count":  unread,
	})
}

// MarkRead marks one of the caller's notifications as read
// @Summary      Mark a notification read
// @Tags         Notifications
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every notification of the caller as read
// @Summary      Mark all notifications read
// @Tags         Notifications
// @Security     BearerAuth
// @Success      204
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.Status(http.StatusNoContent)
}
