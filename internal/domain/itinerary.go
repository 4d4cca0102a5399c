package domain

import (
	"time"

	"github.com/google/uuid"
)

type ItineraryStatus string

const (
	ItineraryStatusActive    ItineraryStatus = "active"
	ItineraryStatusCompleted ItineraryStatus = "completed"
	ItineraryStatusCancelled ItineraryStatus = "cancelled"
)

type Itinerary struct {
	ID                  uuid.UUID
	TravelerID          uuid.UUID
	Origin              string
	Destination         string
	DepartureAt         time.Time
	ArrivalAt           time.Time
	CapacityKg          float64
	PackageRestrictions string
	Status              ItineraryStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (i *Itinerary) IsInPast(now time.Time) bool {
	return i.DepartureAt.Before(now)
}

// ItinerarySearch carries the optional listing filters.
type ItinerarySearch struct {
	Origin            string
	Destination       string
	DepartureDateFrom time.Time
	DepartureDateTo   time.Time
	MinCapacityKg     float64
}

func (s ItinerarySearch) Empty() bool {
	return s.Origin == "" && s.Destination == "" &&
		s.DepartureDateFrom.IsZero() && s.DepartureDateTo.IsZero() &&
		s.MinCapacityKg == 0
}

// SavedSearch is a named listing filter a user keeps around, with an
// optional flag to be told about new matching itineraries.
type SavedSearch struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Filter    ItinerarySearch
	Notify    bool
	CreatedAt time.Time
}
