package domain

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// PackageRequest is a sender's open call for any traveler to carry a
// package. Accepting one synthesizes an itinerary plus a confirmed
// booking in a single unit of work.
type PackageRequest struct {
	ID                  uuid.UUID
	SenderID            uuid.UUID
	Origin              string
	Destination         string
	PreferredDate       time.Time
	PackageDescription  string
	PackageWeightKg     float64
	PackageDimensions   string
	SpecialInstructions string
	Status              RequestStatus
	PriceOfferCents     int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
