package booking

import (
	"context"
	"fmt"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, actor domain.Actor, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error)
}

type Pricer interface {
	Price(weightKg float64) (int64, error)
}

type CreateBookingInput struct {
	ItineraryID         uuid.UUID
	PackageDescription  string
	PackageWeightKg     float64
	PackageDimensions   string
	SpecialInstructions string
}

type BookingService struct {
	bookings    repository.BookingRepository
	itineraries repository.ItineraryRepository
	pricer      Pricer
	notifier    *notify.Emitter
	log         *zap.Logger
}

func NewBookingService(bookings repository.BookingRepository, itineraries repository.ItineraryRepository, pricer Pricer, notifier *notify.Emitter, log *zap.Logger) *BookingService {
	return &BookingService{
		bookings:    bookings,
		itineraries: itineraries,
		pricer:      pricer,
		notifier:    notifier,
		log:         log,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Actor, input CreateBookingInput) (*domain.Booking, error) {
	if actor.Role != domain.RoleSender {
		return nil, fmt.Errorf("%w: only senders can create bookings", domain.ErrUnauthorized)
	}
	if input.PackageDescription == "" {
		return nil, fmt.Errorf("%w: package description is required", domain.ErrValidation)
	}

	itinerary, err := s.itineraries.GetByID(ctx, input.ItineraryID)
	if err != nil {
		return nil, err
	}
	if itinerary.Status != domain.ItineraryStatusActive {
		return nil, fmt.Errorf("%w: itinerary is no longer available for booking", domain.ErrValidation)
	}

	price, err := s.pricer.Price(input.PackageWeightKg)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:                  uuid.New(),
		SenderID:            actor.ID,
		ItineraryID:         itinerary.ID,
		PackageDescription:  input.PackageDescription,
		PackageWeightKg:     input.PackageWeightKg,
		PackageDimensions:   input.PackageDimensions,
		SpecialInstructions: input.SpecialInstructions,
		PriceCents:          price,
	}
	// The capacity check runs inside the insert transaction under a
	// row lock on the itinerary.
	if err := s.bookings.CreateChecked(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyParties(ctx, booking, itinerary, "Booking Pending",
		fmt.Sprintf("Your booking from %s to %s is pending confirmation.", itinerary.Origin, itinerary.Destination),
		fmt.Sprintf("A new booking was requested for your itinerary from %s to %s.", itinerary.Origin, itinerary.Destination))
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	booking, itinerary, err := s.getWithItinerary(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.isParty(actor, booking, itinerary) {
		return nil, domain.ErrUnauthorized
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	switch actor.Role {
	case domain.RoleSender:
		return s.bookings.ListBySender(ctx, actor.ID)
	case domain.RoleTraveler:
		return s.bookings.ListByTraveler(ctx, actor.ID)
	}
	return []domain.Booking{}, nil
}

// UpdateStatus moves a booking along its lifecycle. Only the
// itinerary's traveler may drive the status, and only along the
// transition table.
func (s *BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	booking, itinerary, err := s.getWithItinerary(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != itinerary.TravelerID {
		return nil, fmt.Errorf("%w: only the itinerary's traveler can update booking status", domain.ErrUnauthorized)
	}
	if !booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.notifyParties(ctx, updated, itinerary, fmt.Sprintf("Booking %s", statusLabel(status)),
		fmt.Sprintf("Your booking from %s to %s is now %s.", itinerary.Origin, itinerary.Destination, statusLabel(status)),
		fmt.Sprintf("A booking on your itinerary from %s to %s is now %s.", itinerary.Origin, itinerary.Destination, statusLabel(status)))
	return updated, nil
}

// CancelBooking releases the booking's claim on the itinerary's
// capacity. Either party may cancel while the booking is not yet
// delivered.
func (s *BookingService) CancelBooking(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Booking, error) {
	booking, itinerary, err := s.getWithItinerary(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.isParty(actor, booking, itinerary) {
		return nil, fmt.Errorf("%w: only the sender or traveler can cancel this booking", domain.ErrUnauthorized)
	}
	if booking.Status.Terminal() {
		return nil, fmt.Errorf("%w: booking is already %s", domain.ErrInvalidTransition, booking.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.notifyParties(ctx, updated, itinerary, "Booking Cancelled",
		fmt.Sprintf("Your booking from %s to %s has been cancelled.", itinerary.Origin, itinerary.Destination),
		fmt.Sprintf("A booking on your itinerary from %s to %s has been cancelled.", itinerary.Origin, itinerary.Destination))
	return updated, nil
}

func (s *BookingService) getWithItinerary(ctx context.Context, id uuid.UUID) (*domain.Booking, *domain.Itinerary, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	itinerary, err := s.itineraries.GetByID(ctx, booking.ItineraryID)
	if err != nil {
		return nil, nil, err
	}
	return booking, itinerary, nil
}

func (s *BookingService) isParty(actor domain.Actor, booking *domain.Booking, itinerary *domain.Itinerary) bool {
	return actor.ID == booking.SenderID || actor.ID == itinerary.TravelerID || actor.Role == domain.RoleAdmin
}

func (s *BookingService) notifyParties(ctx context.Context, booking *domain.Booking, itinerary *domain.Itinerary, title, senderMsg, travelerMsg string) {
	link := "/bookings/" + booking.ID.String()
	s.notifier.Emit(ctx, booking.SenderID, domain.NotificationTypeBooking, title, senderMsg, link)
	s.notifier.Emit(ctx, itinerary.TravelerID, domain.NotificationTypeBooking, title, travelerMsg, link)
}

func statusLabel(status domain.BookingStatus) string {
	if status == domain.BookingStatusInTransit {
		return "in transit"
	}
	return string(status)
}

var _ BookingUseCase = (*BookingService)(nil)
