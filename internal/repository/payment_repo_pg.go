package repository

import (
	"context"
	"errors"

	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	GetByProviderID(ctx context.Context, providerID string) (*domain.Payment, error)
	SetProviderID(ctx context.Context, id uuid.UUID, providerID string) error
	// Complete marks the payment completed, appends the ledger entry and
	// confirms the owning booking in a single transaction.
	Complete(ctx context.Context, paymentID uuid.UUID, providerID string) (*domain.Payment, error)
	MarkFailed(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	// Refund appends the refund ledger entry, flips the payment to
	// refunded and cancels the owning booking in a single transaction.
	Refund(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Payment, error)
	AppendRelease(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, status, provider_payment_id, created_at, updated_at`

func scanPayment(row pgx.Row, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Status, &p.ProviderPaymentID, &p.CreatedAt, &p.UpdatedAt)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.Status = domain.PaymentStatusPending
	err := r.db.QueryRow(ctx, `INSERT INTO payments (id, booking_id, amount_cents, status, provider_payment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		payment.ID, payment.BookingID, payment.AmountCents, payment.Status, payment.ProviderPaymentID).
		Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id)
}

func (r *PGPaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=$1`, bookingID)
}

func (r *PGPaymentRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider_payment_id=$1`, providerID)
}

func (r *PGPaymentRepository) get(ctx context.Context, query string, arg interface{}) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) SetProviderID(ctx context.Context, id uuid.UUID, providerID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE payments SET provider_payment_id=$1, updated_at=now() WHERE id=$2`, providerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGPaymentRepository) Complete(ctx context.Context, paymentID uuid.UUID, providerID string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE payments SET status=$1, provider_payment_id=$2, updated_at=now() WHERE id=$3 RETURNING `+paymentColumns,
		domain.PaymentStatusCompleted, providerID, paymentID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, payment_id, amount_cents, type, status, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), p.ID, p.AmountCents, domain.TransactionTypePayment, domain.TransactionStatusSucceeded, providerID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`,
		domain.BookingStatusConfirmed, p.BookingID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) MarkFailed(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+paymentColumns,
		domain.PaymentStatusFailed, paymentID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) Refund(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+paymentColumns,
		domain.PaymentStatusRefunded, paymentID)
	var p domain.Payment
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO transactions (id, payment_id, amount_cents, type, status, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), p.ID, amountCents, domain.TransactionTypeRefund, domain.TransactionStatusSucceeded, externalID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`,
		domain.BookingStatusCancelled, p.BookingID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPaymentRepository) AppendRelease(ctx context.Context, paymentID uuid.UUID, amountCents int64, externalID string) (*domain.Transaction, error) {
	t := domain.Transaction{
		ID:          uuid.New(),
		PaymentID:   paymentID,
		AmountCents: amountCents,
		Type:        domain.TransactionTypeRelease,
		Status:      domain.TransactionStatusSucceeded,
		ExternalID:  externalID,
	}
	err := r.db.QueryRow(ctx, `INSERT INTO transactions (id, payment_id, amount_cents, type, status, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		t.ID, t.PaymentID, t.AmountCents, t.Type, t.Status, t.ExternalID).
		Scan(&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGPaymentRepository) ListTransactions(ctx context.Context, paymentID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, payment_id, amount_cents, type, status, external_id, created_at FROM transactions WHERE payment_id=$1 ORDER BY created_at`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.PaymentID, &t.AmountCents, &t.Type, &t.Status, &t.ExternalID, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
