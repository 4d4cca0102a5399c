package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreateChecked inserts a booking after re-validating the itinerary
	// status and remaining capacity under a row lock, so concurrent
	// bookings against the same itinerary cannot jointly overbook it.
	CreateChecked(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error)
	ListBySender(ctx context.Context, senderID uuid.UUID) ([]domain.Booking, error)
	ListByTraveler(ctx context.Context, travelerID uuid.UUID) ([]domain.Booking, error)
	BookedWeightKg(ctx context.Context, itineraryID uuid.UUID) (float64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, sender_id, itinerary_id, package_description, package_weight_kg, package_dimensions, special_instructions, status, price_cents, created_at, updated_at`

// Cancelled is the only status that releases capacity; delivered
// packages keep counting against the itinerary.
const bookedWeightQuery = `SELECT COALESCE(SUM(package_weight_kg), 0) FROM bookings WHERE itinerary_id=$1 AND status <> 'cancelled'`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.SenderID, &b.ItineraryID, &b.PackageDescription, &b.PackageWeightKg, &b.PackageDimensions, &b.SpecialInstructions, &b.Status, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) CreateChecked(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var capacityKg float64
	var status domain.ItineraryStatus
	err = tx.QueryRow(ctx, `SELECT capacity_kg, status FROM itineraries WHERE id=$1 FOR UPDATE`, booking.ItineraryID).Scan(&capacityKg, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status != domain.ItineraryStatusActive {
		return fmt.Errorf("%w: itinerary is not active", domain.ErrValidation)
	}

	var bookedKg float64
	if err := tx.QueryRow(ctx, bookedWeightQuery, booking.ItineraryID).Scan(&bookedKg); err != nil {
		return err
	}
	if booking.PackageWeightKg > capacityKg-bookedKg {
		return domain.ErrCapacityExceeded
	}

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, sender_id, itinerary_id, package_description, package_weight_kg, package_dimensions, special_instructions, status, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		booking.ID, booking.SenderID, booking.ItineraryID, booking.PackageDescription, booking.PackageWeightKg, booking.PackageDimensions, booking.SpecialInstructions, booking.Status, booking.PriceCents).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE sender_id=$1 ORDER BY created_at DESC`, senderID)
}

func (r *PGBookingRepository) ListByTraveler(ctx context.Context, travelerID uuid.UUID) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT b.id, b.sender_id, b.itinerary_id, b.package_description, b.package_weight_kg, b.package_dimensions, b.special_instructions, b.status, b.price_cents, b.created_at, b.updated_at
		FROM bookings b JOIN itineraries i ON i.id = b.itinerary_id
		WHERE i.traveler_id=$1 ORDER BY b.created_at DESC`, travelerID)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, arg interface{}) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) BookedWeightKg(ctx context.Context, itineraryID uuid.UUID) (float64, error) {
	var booked float64
	if err := r.db.QueryRow(ctx, bookedWeightQuery, itineraryID).Scan(&booked); err != nil {
		return 0, err
	}
	return booked, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
