package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/notifications"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service notifications.NotificationUseCase
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func NewNotificationHandler(service notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/unread-count", h.unreadCount)
	router.PUT("/:id/read", h.markRead)
	router.PUT("/read-all", h.markAllRead)
}

func (h *NotificationHandler) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]notificationResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toNotificationResponse(&items[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
