package repository

import (
	"context"
	"time"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SavedSearchRepository interface {
	Create(ctx context.Context, search *domain.SavedSearch) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PGSavedSearchRepository struct {
	db *pgxpool.Pool
}

func NewSavedSearchRepository(db *pgxpool.Pool) SavedSearchRepository {
	return &PGSavedSearchRepository{db: db}
}

func (r *PGSavedSearchRepository) Create(ctx context.Context, search *domain.SavedSearch) error {
	var from, to *time.Time
	if !search.Filter.DepartureDateFrom.IsZero() {
		from = &search.Filter.DepartureDateFrom
	}
	if !search.Filter.DepartureDateTo.IsZero() {
		to = &search.Filter.DepartureDateTo
	}
	return r.db.QueryRow(ctx, `INSERT INTO saved_searches (id, user_id, name, origin, destination, departure_date_from, departure_date_to, min_capacity_kg, notify)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		search.ID, search.UserID, search.Name, search.Filter.Origin, search.Filter.Destination, from, to, search.Filter.MinCapacityKg, search.Notify).
		Scan(&search.CreatedAt)
}

func (r *PGSavedSearchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, name, origin, destination, departure_date_from, departure_date_to, min_capacity_kg, notify, created_at
		FROM saved_searches WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := make([]domain.SavedSearch, 0)
	for rows.Next() {
		var s domain.SavedSearch
		var from, to *time.Time
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Filter.Origin, &s.Filter.Destination, &from, &to, &s.Filter.MinCapacityKg, &s.Notify, &s.CreatedAt); err != nil {
			return nil, err
		}
		if from != nil {
			s.Filter.DepartureDateFrom = *from
		}
		if to != nil {
			s.Filter.DepartureDateTo = *to
		}
		searches = append(searches, s)
	}
	return searches, rows.Err()
}

func (r *PGSavedSearchRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM saved_searches WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ SavedSearchRepository = (*PGSavedSearchRepository)(nil)
