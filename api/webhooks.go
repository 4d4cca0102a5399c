package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/flyncarry/flyncarry/internal/gateway"
	"github.com/flyncarry/flyncarry/internal/service/payments"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const signatureHeader = "X-Gateway-Signature"

// WebhookHandler receives the payment provider's callbacks. It sits
// outside the actor middleware: the provider authenticates with an
// HMAC signature over the raw body, not with user headers.
type WebhookHandler struct {
	service payments.PaymentUseCase
	secret  string
	log     *zap.Logger
}

func NewWebhookHandler(service payments.PaymentUseCase, secret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, secret: secret, log: log}
}

func (h *WebhookHandler) Register(router *gin.RouterGroup) {
	router.POST("/gateway", h.handle)
}

func (h *WebhookHandler) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	// Verify before parsing: an unsigned payload must not reach any
	// state-changing code path.
	if !gateway.VerifySignature(body, c.GetHeader(signatureHeader), h.secret) {
		h.log.Warn("webhook signature mismatch", zap.Int("body_bytes", len(body)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var event gateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := h.service.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
