package handlers

import (
	"net/http"
	"strconv"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	session := SessionFromContext(c)

	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	notifications, err := h.notificationService.GetUserNotifications(c.Request.Context(), session.UserID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// UnreadCount returns how many notifications are unread.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	session := SessionFromContext(c)

	count, err := h.notificationService.CountUnread(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead marks a single notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.MarkNotificationRead(c.Request.Context(), id, session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification marked read"})
}

// BroadcastRequest is the admin payload for a system notification sent to
// a list of users.
type BroadcastRequest struct {
	UserIDs []string                     `json:"user_ids" binding:"required,min=1"`
	Payload services.NotificationRequest `json:"notification" binding:"required"`
}

// Broadcast stores a system notification for each named user and emits
// the matching event.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.notificationService.SendBulkNotification(c.Request.Context(), req.UserIDs, &req.Payload); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Notification sent"})
}

// MarkAllRead marks every notification read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	session := SessionFromContext(c)

	if err := h.notificationService.MarkAllNotificationsRead(c.Request.Context(), session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "All notifications marked read"})
}
