package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusInTransit BookingStatus = "in_transit"
	BookingStatusDelivered BookingStatus = "delivered"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the single source of truth for allowed status
// changes. Callers never write a status the table does not permit.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusInTransit, BookingStatusCancelled},
	BookingStatusInTransit: {BookingStatusDelivered, BookingStatusCancelled},
	BookingStatusDelivered: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingStatusDelivered || s == BookingStatusCancelled
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

type Booking struct {
	ID                  uuid.UUID
	SenderID            uuid.UUID
	ItineraryID         uuid.UUID
	PackageDescription  string
	PackageWeightKg     float64
	PackageDimensions   string
	SpecialInstructions string
	Status              BookingStatus
	PriceCents          int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
