package kafka

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEvent is emitted by the lifecycle services on every
// domain state change that the parties should hear about. The worker
// materializes each event into a notification row and an e-mail.
// Emission is explicit in each operation's contract; nothing fires
// implicitly on row writes.
type NotificationEvent struct {
	EventID     string    `json:"event_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Link        string    `json:"link"`
	OccurredAt  time.Time `json:"occurred_at"`
}
