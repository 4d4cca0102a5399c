package requests

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RequestUseCase interface {
	CreateRequest(ctx context.Context, actor domain.Actor, input CreateRequestInput) (*domain.PackageRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*domain.PackageRequest, error)
	ListRequests(ctx context.Context, actor domain.Actor) ([]domain.PackageRequest, error)
	CancelRequest(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PackageRequest, error)
	AcceptRequest(ctx context.Context, actor domain.Actor, id uuid.UUID, schedule ScheduleInput) (*domain.Itinerary, *domain.Booking, error)
}

type CreateRequestInput struct {
	Origin              string
	Destination         string
	PreferredDate       time.Time
	PackageDescription  string
	PackageWeightKg     float64
	PackageDimensions   string
	SpecialInstructions string
	PriceOfferCents     int64
}

// ScheduleInput carries the traveler's optional schedule details when
// accepting a request. Fields arrive as raw form strings; malformed
// values fall back to defaults rather than failing the acceptance.
type ScheduleInput struct {
	DepartureTime string // "15:04"
	ArrivalTime   string // "15:04"
	ArrivalDate   string // "2006-01-02"
	CapacityKg    string
}

type RequestService struct {
	requests repository.RequestRepository
	notifier *notify.Emitter
	log      *zap.Logger
}

func NewRequestService(requests repository.RequestRepository, notifier *notify.Emitter, log *zap.Logger) *RequestService {
	return &RequestService{requests: requests, notifier: notifier, log: log}
}

func (s *RequestService) CreateRequest(ctx context.Context, actor domain.Actor, input CreateRequestInput) (*domain.PackageRequest, error) {
	if actor.Role != domain.RoleSender {
		return nil, fmt.Errorf("%w: only senders can create package requests", domain.ErrUnauthorized)
	}
	if input.Origin == "" || input.Destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if input.PackageWeightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", domain.ErrValidation)
	}
	if input.PriceOfferCents <= 0 {
		return nil, fmt.Errorf("%w: price offer must be positive", domain.ErrValidation)
	}

	request := &domain.PackageRequest{
		ID:                  uuid.New(),
		SenderID:            actor.ID,
		Origin:              input.Origin,
		Destination:         input.Destination,
		PreferredDate:       input.PreferredDate,
		PackageDescription:  input.PackageDescription,
		PackageWeightKg:     input.PackageWeightKg,
		PackageDimensions:   input.PackageDimensions,
		SpecialInstructions: input.SpecialInstructions,
		PriceOfferCents:     input.PriceOfferCents,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*domain.PackageRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// ListRequests returns the sender's own requests, or the open board
// for travelers.
func (s *RequestService) ListRequests(ctx context.Context, actor domain.Actor) ([]domain.PackageRequest, error) {
	switch actor.Role {
	case domain.RoleSender:
		return s.requests.ListBySender(ctx, actor.ID)
	case domain.RoleTraveler:
		return s.requests.ListOpen(ctx)
	}
	return []domain.PackageRequest{}, nil
}

func (s *RequestService) CancelRequest(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PackageRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != request.SenderID {
		return nil, fmt.Errorf("%w: only the request's sender can cancel it", domain.ErrUnauthorized)
	}
	if request.Status != domain.RequestStatusOpen {
		return nil, fmt.Errorf("%w: request is already %s", domain.ErrInvalidTransition, request.Status)
	}
	return s.requests.UpdateStatus(ctx, id, domain.RequestStatusCancelled)
}

// AcceptRequest converts an open request into a new itinerary owned by
// the traveler plus a confirmed booking, atomically. The booking skips
// pending because acceptance is itself the confirmation.
func (s *RequestService) AcceptRequest(ctx context.Context, actor domain.Actor, id uuid.UUID, schedule ScheduleInput) (*domain.Itinerary, *domain.Booking, error) {
	if actor.Role != domain.RoleTraveler {
		return nil, nil, fmt.Errorf("%w: only travelers can accept package requests", domain.ErrUnauthorized)
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if request.Status != domain.RequestStatusOpen {
		return nil, nil, fmt.Errorf("%w: request is no longer open", domain.ErrInvalidTransition)
	}

	departureTime := parseTimeOfDay(schedule.DepartureTime)
	arrivalTime := parseTimeOfDay(schedule.ArrivalTime)
	arrivalDate := parseArrivalDate(schedule.ArrivalDate, request.PreferredDate)
	capacityKg := resolveCapacity(schedule.CapacityKg, request.PackageWeightKg)

	itinerary := &domain.Itinerary{
		ID:                  uuid.New(),
		TravelerID:          actor.ID,
		Origin:              request.Origin,
		Destination:         request.Destination,
		DepartureAt:         combine(request.PreferredDate, departureTime),
		ArrivalAt:           combine(arrivalDate, arrivalTime),
		CapacityKg:          capacityKg,
		PackageRestrictions: request.SpecialInstructions,
		Status:              domain.ItineraryStatusActive,
	}
	booking := &domain.Booking{
		ID:                  uuid.New(),
		SenderID:            request.SenderID,
		ItineraryID:         itinerary.ID,
		PackageDescription:  request.PackageDescription,
		PackageWeightKg:     request.PackageWeightKg,
		PackageDimensions:   request.PackageDimensions,
		SpecialInstructions: request.SpecialInstructions,
		Status:              domain.BookingStatusConfirmed,
		PriceCents:          request.PriceOfferCents,
	}

	if err := s.requests.Accept(ctx, request, itinerary, booking); err != nil {
		return nil, nil, err
	}

	link := "/bookings/" + booking.ID.String()
	s.notifier.Emit(ctx, request.SenderID, domain.NotificationTypeBooking, "Package Request Accepted",
		fmt.Sprintf("Your package request from %s to %s has been accepted.", request.Origin, request.Destination), link)
	s.notifier.Emit(ctx, actor.ID, domain.NotificationTypeBooking, "Package Request Accepted",
		fmt.Sprintf("You have accepted a package request from %s to %s.", request.Origin, request.Destination), link)
	return itinerary, booking, nil
}

// parseTimeOfDay falls back to noon on a missing or malformed value.
func parseTimeOfDay(value string) time.Duration {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 12 * time.Hour
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
}

// parseArrivalDate falls back to the day after the preferred date.
func parseArrivalDate(value string, preferred time.Time) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return preferred.AddDate(0, 0, 1)
	}
	return d
}

// resolveCapacity keeps the traveler's value when it fits the package,
// pads an insufficient value to 1.5x the package weight, and doubles
// the weight when no usable value was supplied.
func resolveCapacity(value string, packageWeightKg float64) float64 {
	capacity, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return packageWeightKg * 2
	}
	if capacity < packageWeightKg {
		return packageWeightKg * 1.5
	}
	return capacity
}

func combine(date time.Time, timeOfDay time.Duration) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(timeOfDay)
}

var _ RequestUseCase = (*RequestService)(nil)
