package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// Payment is the escrow record for a booking. At most one per booking.
type Payment struct {
	ID                uuid.UUID
	BookingID         uuid.UUID
	AmountCents       int64
	Status            PaymentStatus
	ProviderPaymentID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
	TransactionTypeRelease TransactionType = "release"
)

// Transaction is an append-only ledger entry owned by a payment.
// Rows are never mutated after insert.
type Transaction struct {
	ID          uuid.UUID
	PaymentID   uuid.UUID
	AmountCents int64
	Type        TransactionType
	Status      string
	ExternalID  string
	CreatedAt   time.Time
}

const TransactionStatusSucceeded = "succeeded"
