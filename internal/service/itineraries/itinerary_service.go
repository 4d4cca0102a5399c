package itineraries

import (
	"context"
	"fmt"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/flyncarry/flyncarry/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItineraryUseCase interface {
	Create(ctx context.Context, actor domain.Actor, input CreateItineraryInput) (*domain.Itinerary, error)
	Search(ctx context.Context, filter domain.ItinerarySearch) ([]domain.Itinerary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)
	AvailableCapacityKg(ctx context.Context, id uuid.UUID) (float64, error)
	Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Itinerary, error)
	CompletePastItineraries(ctx context.Context) ([]domain.Itinerary, error)
	SaveSearch(ctx context.Context, actor domain.Actor, input SaveSearchInput) (*domain.SavedSearch, error)
	ListSavedSearches(ctx context.Context, actor domain.Actor) ([]domain.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type Cache interface {
	GetItineraries(ctx context.Context) ([]domain.Itinerary, error)
	SetItineraries(ctx context.Context, itineraries []domain.Itinerary) error
	InvalidateItineraries(ctx context.Context) error
}

type CreateItineraryInput struct {
	Origin              string
	Destination         string
	DepartureAt         time.Time
	ArrivalAt           time.Time
	CapacityKg          float64
	PackageRestrictions string
}

type SaveSearchInput struct {
	Name   string
	Filter domain.ItinerarySearch
	Notify bool
}

type ItineraryService struct {
	itineraries   repository.ItineraryRepository
	bookings      repository.BookingRepository
	savedSearches repository.SavedSearchRepository
	cache         Cache
	log           *zap.Logger
}

func NewItineraryService(itineraries repository.ItineraryRepository, bookings repository.BookingRepository, savedSearches repository.SavedSearchRepository, cache Cache, log *zap.Logger) *ItineraryService {
	return &ItineraryService{itineraries: itineraries, bookings: bookings, savedSearches: savedSearches, cache: cache, log: log}
}

func (s *ItineraryService) Create(ctx context.Context, actor domain.Actor, input CreateItineraryInput) (*domain.Itinerary, error) {
	if actor.Role != domain.RoleTraveler {
		return nil, fmt.Errorf("%w: only travelers can publish itineraries", domain.ErrUnauthorized)
	}
	if input.Origin == "" || input.Destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if input.CapacityKg <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}
	if !input.ArrivalAt.After(input.DepartureAt) {
		return nil, fmt.Errorf("%w: arrival must be after departure", domain.ErrValidation)
	}

	itinerary := &domain.Itinerary{
		ID:                  uuid.New(),
		TravelerID:          actor.ID,
		Origin:              input.Origin,
		Destination:         input.Destination,
		DepartureAt:         input.DepartureAt,
		ArrivalAt:           input.ArrivalAt,
		CapacityKg:          input.CapacityKg,
		PackageRestrictions: input.PackageRestrictions,
	}
	if err := s.itineraries.Create(ctx, itinerary); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateItineraries(ctx)
	}
	return itinerary, nil
}

func (s *ItineraryService) Search(ctx context.Context, filter domain.ItinerarySearch) ([]domain.Itinerary, error) {
	if s.cache != nil && filter.Empty() {
		if cached, err := s.cache.GetItineraries(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	itineraries, err := s.itineraries.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && filter.Empty() {
		_ = s.cache.SetItineraries(ctx, itineraries)
	}
	return itineraries, nil
}

func (s *ItineraryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	return s.itineraries.GetByID(ctx, id)
}

// AvailableCapacityKg is a derived read: total capacity minus the
// weight of every booking that still counts against it. Recomputed on
// each call so it is always consistent with the booking table.
func (s *ItineraryService) AvailableCapacityKg(ctx context.Context, id uuid.UUID) (float64, error) {
	itinerary, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	booked, err := s.bookings.BookedWeightKg(ctx, id)
	if err != nil {
		return 0, err
	}
	return itinerary.CapacityKg - booked, nil
}

func (s *ItineraryService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Itinerary, error) {
	itinerary, err := s.itineraries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != itinerary.TravelerID && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only the itinerary's traveler can cancel it", domain.ErrUnauthorized)
	}
	if itinerary.Status != domain.ItineraryStatusActive {
		return nil, fmt.Errorf("%w: itinerary is %s", domain.ErrInvalidTransition, itinerary.Status)
	}

	updated, err := s.itineraries.UpdateStatus(ctx, id, domain.ItineraryStatusCancelled)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateItineraries(ctx)
	}
	return updated, nil
}

// CompletePastItineraries marks active itineraries whose arrival has
// passed as completed. Run by the worker on a schedule.
func (s *ItineraryService) CompletePastItineraries(ctx context.Context) ([]domain.Itinerary, error) {
	completed, err := s.itineraries.CompleteArrivedBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	if len(completed) > 0 {
		if s.cache != nil {
			_ = s.cache.InvalidateItineraries(ctx)
		}
		if s.log != nil {
			s.log.Info("completed past itineraries", zap.Int("count", len(completed)))
		}
	}
	return completed, nil
}

// SaveSearch keeps the caller's current listing filter under a name so
// it can be re-run later.
func (s *ItineraryService) SaveSearch(ctx context.Context, actor domain.Actor, input SaveSearchInput) (*domain.SavedSearch, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: saved search needs a name", domain.ErrValidation)
	}
	if input.Filter.Empty() {
		return nil, fmt.Errorf("%w: saved search needs at least one filter", domain.ErrValidation)
	}

	search := &domain.SavedSearch{
		ID:     uuid.New(),
		UserID: actor.ID,
		Name:   input.Name,
		Filter: input.Filter,
		Notify: input.Notify,
	}
	if err := s.savedSearches.Create(ctx, search); err != nil {
		return nil, err
	}
	return search, nil
}

func (s *ItineraryService) ListSavedSearches(ctx context.Context, actor domain.Actor) ([]domain.SavedSearch, error) {
	return s.savedSearches.ListByUser(ctx, actor.ID)
}

// DeleteSavedSearch removes one of the caller's own saved searches;
// the owner scope lives in the delete predicate, so a stranger's id
// surfaces as not found.
func (s *ItineraryService) DeleteSavedSearch(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return s.savedSearches.Delete(ctx, id, actor.ID)
}

var _ ItineraryUseCase = (*ItineraryService)(nil)
