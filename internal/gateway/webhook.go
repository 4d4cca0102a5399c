package gateway

// WebhookEvent is the asynchronous notification the provider posts to
// the marketplace after settlement. Events are keyed by the provider
// payment id and may arrive more than once.
type WebhookEvent struct {
	EventID       string `json:"eventId"`
	EventType     string `json:"eventType"`
	PaymentID     string `json:"paymentId"`
	RefundID      string `json:"refundTransactionId,omitempty"`
	AmountCents   int64  `json:"amountCents,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

const (
	EventPaymentCompleted = "PAYMENT_COMPLETED"
	EventPaymentFailed    = "PAYMENT_FAILED"
	EventPaymentRefunded  = "PAYMENT_REFUNDED"
)
