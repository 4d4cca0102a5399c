package repository

import (
	"context"
	"errors"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository interface {
	Create(ctx context.Context, request *domain.PackageRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PackageRequest, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]domain.PackageRequest, error)
	ListOpen(ctx context.Context) ([]domain.PackageRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) (*domain.PackageRequest, error)
	// Accept atomically inserts the synthesized itinerary and confirmed
	// booking and flips the request to accepted. Either all three writes
	// land or none do.
	Accept(ctx context.Context, request *domain.PackageRequest, itinerary *domain.Itinerary, booking *domain.Booking) error
}

type PGRequestRepository struct {
	db *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) RequestRepository {
	return &PGRequestRepository{db: db}
}

const requestColumns = `id, sender_id, origin, destination, preferred_date, package_description, package_weight_kg, package_dimensions, special_instructions, status, price_offer_cents, created_at, updated_at`

func scanRequest(row pgx.Row, p *domain.PackageRequest) error {
	return row.Scan(&p.ID, &p.SenderID, &p.Origin, &p.Destination, &p.PreferredDate, &p.PackageDescription, &p.PackageWeightKg, &p.PackageDimensions, &p.SpecialInstructions, &p.Status, &p.PriceOfferCents, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRequestRepository) Create(ctx context.Context, request *domain.PackageRequest) error {
	request.Status = domain.RequestStatusOpen
	return r.db.QueryRow(ctx, `INSERT INTO package_requests (id, sender_id, origin, destination, preferred_date, package_description, package_weight_kg, package_dimensions, special_instructions, status, price_offer_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		request.ID, request.SenderID, request.Origin, request.Destination, request.PreferredDate, request.PackageDescription, request.PackageWeightKg, request.PackageDimensions, request.SpecialInstructions, request.Status, request.PriceOfferCents).
		Scan(&request.CreatedAt, &request.UpdatedAt)
}

func (r *PGRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PackageRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM package_requests WHERE id=$1`, id)
	var p domain.PackageRequest
	if err := scanRequest(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRequestRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]domain.PackageRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM package_requests WHERE sender_id=$1 ORDER BY created_at DESC`, senderID)
}

func (r *PGRequestRepository) ListOpen(ctx context.Context) ([]domain.PackageRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM package_requests WHERE status=$1 ORDER BY created_at DESC`, domain.RequestStatusOpen)
}

func (r *PGRequestRepository) list(ctx context.Context, query string, arg interface{}) ([]domain.PackageRequest, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.PackageRequest, 0)
	for rows.Next() {
		var p domain.PackageRequest
		if err := scanRequest(rows, &p); err != nil {
			return nil, err
		}
		requests = append(requests, p)
	}
	return requests, rows.Err()
}

func (r *PGRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) (*domain.PackageRequest, error) {
	row := r.db.QueryRow(ctx, `UPDATE package_requests SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+requestColumns, status, id)
	var p domain.PackageRequest
	if err := scanRequest(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRequestRepository) Accept(ctx context.Context, request *domain.PackageRequest, itinerary *domain.Itinerary, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Guard against a concurrent accept or cancel of the same request.
	cmd, err := tx.Exec(ctx, `UPDATE package_requests SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		domain.RequestStatusAccepted, request.ID, domain.RequestStatusOpen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}

	if err := tx.QueryRow(ctx, `INSERT INTO itineraries (id, traveler_id, origin, destination, departure_at, arrival_at, capacity_kg, package_restrictions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		itinerary.ID, itinerary.TravelerID, itinerary.Origin, itinerary.Destination, itinerary.DepartureAt, itinerary.ArrivalAt, itinerary.CapacityKg, itinerary.PackageRestrictions, itinerary.Status).
		Scan(&itinerary.CreatedAt, &itinerary.UpdatedAt); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, sender_id, itinerary_id, package_description, package_weight_kg, package_dimensions, special_instructions, status, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		booking.ID, booking.SenderID, booking.ItineraryID, booking.PackageDescription, booking.PackageWeightKg, booking.PackageDimensions, booking.SpecialInstructions, booking.Status, booking.PriceCents).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	request.Status = domain.RequestStatusAccepted
	return nil
}

var _ RequestRepository = (*PGRequestRepository)(nil)
