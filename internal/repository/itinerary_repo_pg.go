package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *domain.Itinerary) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error)
	Search(ctx context.Context, filter domain.ItinerarySearch) ([]domain.Itinerary, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItineraryStatus) (*domain.Itinerary, error)
	CompleteArrivedBefore(ctx context.Context, deadline time.Time) ([]domain.Itinerary, error)
}

type PGItineraryRepository struct {
	db *pgxpool.Pool
}

func NewItineraryRepository(db *pgxpool.Pool) ItineraryRepository {
	return &PGItineraryRepository{db: db}
}

const itineraryColumns = `id, traveler_id, origin, destination, departure_at, arrival_at, capacity_kg, package_restrictions, status, created_at, updated_at`

func scanItinerary(row pgx.Row, i *domain.Itinerary) error {
	return row.Scan(&i.ID, &i.TravelerID, &i.Origin, &i.Destination, &i.DepartureAt, &i.ArrivalAt, &i.CapacityKg, &i.PackageRestrictions, &i.Status, &i.CreatedAt, &i.UpdatedAt)
}

func (r *PGItineraryRepository) Create(ctx context.Context, itinerary *domain.Itinerary) error {
	itinerary.Status = domain.ItineraryStatusActive
	return r.db.QueryRow(ctx, `INSERT INTO itineraries (id, traveler_id, origin, destination, departure_at, arrival_at, capacity_kg, package_restrictions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		itinerary.ID, itinerary.TravelerID, itinerary.Origin, itinerary.Destination, itinerary.DepartureAt, itinerary.ArrivalAt, itinerary.CapacityKg, itinerary.PackageRestrictions, itinerary.Status).
		Scan(&itinerary.CreatedAt, &itinerary.UpdatedAt)
}

func (r *PGItineraryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Itinerary, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id=$1`, id)
	var i domain.Itinerary
	if err := scanItinerary(row, &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *PGItineraryRepository) Search(ctx context.Context, filter domain.ItinerarySearch) ([]domain.Itinerary, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE status='active'`
	args := []interface{}{}
	n := 0
	next := func() int { n++; return n }

	if filter.Origin != "" {
		query += ` AND origin ILIKE '%' || $` + strconv.Itoa(next()) + ` || '%'`
		args = append(args, filter.Origin)
	}
	if filter.Destination != "" {
		query += ` AND destination ILIKE '%' || $` + strconv.Itoa(next()) + ` || '%'`
		args = append(args, filter.Destination)
	}
	if !filter.DepartureDateFrom.IsZero() {
		query += ` AND departure_at >= $` + strconv.Itoa(next())
		args = append(args, filter.DepartureDateFrom)
	}
	if !filter.DepartureDateTo.IsZero() {
		query += ` AND departure_at <= $` + strconv.Itoa(next())
		args = append(args, filter.DepartureDateTo)
	}
	if filter.MinCapacityKg > 0 {
		query += ` AND capacity_kg >= $` + strconv.Itoa(next())
		args = append(args, filter.MinCapacityKg)
	}
	query += ` ORDER BY departure_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itineraries := make([]domain.Itinerary, 0)
	for rows.Next() {
		var i domain.Itinerary
		if err := scanItinerary(rows, &i); err != nil {
			return nil, err
		}
		itineraries = append(itineraries, i)
	}
	return itineraries, rows.Err()
}

func (r *PGItineraryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItineraryStatus) (*domain.Itinerary, error) {
	row := r.db.QueryRow(ctx, `UPDATE itineraries SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+itineraryColumns, status, id)
	var i domain.Itinerary
	if err := scanItinerary(row, &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *PGItineraryRepository) CompleteArrivedBefore(ctx context.Context, deadline time.Time) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, `UPDATE itineraries SET status=$1, updated_at=now() WHERE status=$2 AND arrival_at <= $3 RETURNING `+itineraryColumns,
		domain.ItineraryStatusCompleted, domain.ItineraryStatusActive, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []domain.Itinerary
	for rows.Next() {
		var i domain.Itinerary
		if err := scanItinerary(rows, &i); err != nil {
			return nil, err
		}
		completed = append(completed, i)
	}
	return completed, rows.Err()
}

var _ ItineraryRepository = (*PGItineraryRepository)(nil)
