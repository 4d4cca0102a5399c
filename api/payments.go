package api

import (
	"net/http"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/gateway"
	"github.com/flyncarry/flyncarry/internal/service/payments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type processPaymentRequest struct {
	CardNumber      string `json:"card_number" binding:"required"`
	CardExpiryMonth string `json:"card_expiry_month" binding:"required"`
	CardExpiryYear  string `json:"card_expiry_year" binding:"required"`
	CardCVC         string `json:"card_cvc" binding:"required"`
	CardHolderName  string `json:"card_holder_name" binding:"required"`
}

type paymentResponse struct {
	ID                string `json:"id"`
	BookingID         string `json:"booking_id"`
	AmountCents       int64  `json:"amount_cents"`
	Status            string `json:"status"`
	ProviderPaymentID string `json:"provider_payment_id,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	ExternalID  string `json:"external_id"`
	CreatedAt   string `json:"created_at"`
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings/:id/initiate", h.initiate)
	router.POST("/bookings/:id/process", h.process)
	router.GET("/bookings/:id", h.getForBooking)
	router.POST("/:id/release", h.release)
	router.POST("/:id/refund", h.refund)
	router.GET("/:id/transactions", h.transactions)
}

func (h *PaymentHandler) initiate(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	payment, err := h.service.InitiatePayment(c.Request.Context(), actorFrom(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

func (h *PaymentHandler) process(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.service.ProcessPayment(c.Request.Context(), actorFrom(c), bookingID, gateway.Card{
		Number:      req.CardNumber,
		ExpiryMonth: req.CardExpiryMonth,
		ExpiryYear:  req.CardExpiryYear,
		CVC:         req.CardCVC,
		HolderName:  req.CardHolderName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) getForBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	payment, err := h.service.GetPaymentForBooking(c.Request.Context(), actorFrom(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) release(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	tx, err := h.service.ReleaseToTraveler(c.Request.Context(), actorFrom(c), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

func (h *PaymentHandler) refund(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	payment, err := h.service.RefundPayment(c.Request.Context(), actorFrom(c), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) transactions(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	txs, err := h.service.ListTransactions(c.Request.Context(), actorFrom(c), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		responses = append(responses, toTransactionResponse(&txs[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID.String(),
		BookingID:         p.BookingID.String(),
		AmountCents:       p.AmountCents,
		Status:            string(p.Status),
		ProviderPaymentID: p.ProviderPaymentID,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID.String(),
		PaymentID:   t.PaymentID.String(),
		AmountCents: t.AmountCents,
		Type:        string(t.Type),
		Status:      t.Status,
		ExternalID:  t.ExternalID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}
