package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/service/messaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service messaging.MessagingUseCase
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Content     string `json:"content" binding:"required,max=2000"`
}

type conversationResponse struct {
	ID           string   `json:"id"`
	Participants []string `json:"participants"`
	UpdatedAt    string   `json:"updated_at"`
}

type messageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Content        string `json:"content"`
	IsRead         bool   `json:"is_read"`
	SentAt         string `json:"sent_at"`
}

func NewMessageHandler(service messaging.MessagingUseCase) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Register(router *gin.RouterGroup) {
	router.GET("/conversations", h.listConversations)
	router.GET("/conversations/:id", h.listMessages)
	router.POST("/", h.send)
}

func (h *MessageHandler) listConversations(c *gin.Context) {
	convos, err := h.service.ListConversations(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]conversationResponse, 0, len(convos))
	for i := range convos {
		responses = append(responses, toConversationResponse(&convos[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *MessageHandler) listMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	msgs, err := h.service.ListMessages(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]messageResponse, 0, len(msgs))
	for i := range msgs {
		responses = append(responses, toMessageResponse(&msgs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *MessageHandler) send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient_id"})
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), actorFrom(c), recipientID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

func toConversationResponse(conv *domain.Conversation) conversationResponse {
	return conversationResponse{
		ID:           conv.ID.String(),
		Participants: []string{conv.Participants[0].String(), conv.Participants[1].String()},
		UpdatedAt:    conv.UpdatedAt.Format(time.RFC3339),
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		IsRead:         m.IsRead,
		SentAt:         m.SentAt.Format(time.RFC3339),
	}
}
