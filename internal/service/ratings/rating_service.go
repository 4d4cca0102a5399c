package ratings

import (
	"context"
	"fmt"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/flyncarry/flyncarry/internal/service/notify"
	"github.com/google/uuid"
)

type RatingUseCase interface {
	RateBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, stars int, comment string) (*domain.Rating, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Rating, error)
	AverageForUser(ctx context.Context, userID uuid.UUID) (float64, error)
}

type RatingService struct {
	ratings     repository.RatingRepository
	bookings    repository.BookingRepository
	itineraries repository.ItineraryRepository
	notifier    *notify.Emitter
}

func NewRatingService(ratings repository.RatingRepository, bookings repository.BookingRepository, itineraries repository.ItineraryRepository, notifier *notify.Emitter) *RatingService {
	return &RatingService{ratings: ratings, bookings: bookings, itineraries: itineraries, notifier: notifier}
}

// RateBooking lets either party of a delivered booking rate the other.
// A second rating for the same booking by the same user is rejected by
// the uniqueness constraint.
func (s *RatingService) RateBooking(ctx context.Context, actor domain.Actor, bookingID uuid.UUID, stars int, comment string) (*domain.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5 stars", domain.ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	itinerary, err := s.itineraries.GetByID(ctx, booking.ItineraryID)
	if err != nil {
		return nil, err
	}

	var counterparty uuid.UUID
	switch actor.ID {
	case booking.SenderID:
		counterparty = itinerary.TravelerID
	case itinerary.TravelerID:
		counterparty = booking.SenderID
	default:
		return nil, fmt.Errorf("%w: only the booking's parties can rate it", domain.ErrUnauthorized)
	}
	if booking.Status != domain.BookingStatusDelivered {
		return nil, fmt.Errorf("%w: only delivered bookings can be rated", domain.ErrValidation)
	}

	rating := &domain.Rating{
		ID:        uuid.New(),
		FromUser:  actor.ID,
		ToUser:    counterparty,
		BookingID: bookingID,
		Stars:     stars,
		Comment:   comment,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, counterparty, domain.NotificationTypeRating,
		fmt.Sprintf("New %d-star rating", stars),
		"You've received a new rating for a booking.",
		"/profile/"+counterparty.String())
	return rating, nil
}

func (s *RatingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Rating, error) {
	return s.ratings.ListForUser(ctx, userID)
}

func (s *RatingService) AverageForUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.ratings.AverageForUser(ctx, userID)
}

var _ RatingUseCase = (*RatingService)(nil)
