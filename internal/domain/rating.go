package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a 1-5 star review left for the counterparty of a booking.
// One rating per (rater, booking), enforced by a unique constraint.
type Rating struct {
	ID        uuid.UUID
	FromUser  uuid.UUID
	ToUser    uuid.UUID
	BookingID uuid.UUID
	Stars     int
	Comment   string
	CreatedAt time.Time
}
