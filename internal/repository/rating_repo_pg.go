package repository

import (
	"context"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Rating, error)
	AverageForUser(ctx context.Context, userID uuid.UUID) (float64, error)
}

type PGRatingRepository struct {
	db *pgxpool.Pool
}

func NewRatingRepository(db *pgxpool.Pool) RatingRepository {
	return &PGRatingRepository{db: db}
}

func (r *PGRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	err := r.db.QueryRow(ctx, `INSERT INTO ratings (id, from_user, to_user, booking_id, stars, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rating.ID, rating.FromUser, rating.ToUser, rating.BookingID, rating.Stars, rating.Comment).
		Scan(&rating.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *PGRatingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx, `SELECT id, from_user, to_user, booking_id, stars, comment, created_at FROM ratings WHERE to_user=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.ID, &rating.FromUser, &rating.ToUser, &rating.BookingID, &rating.Stars, &rating.Comment, &rating.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *PGRatingRepository) AverageForUser(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(stars), 0) FROM ratings WHERE to_user=$1`, userID).Scan(&avg)
	return avg, err
}

var _ RatingRepository = (*PGRatingRepository)(nil)
