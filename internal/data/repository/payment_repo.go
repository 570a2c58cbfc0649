package repository

import (
	"context"
	"errors"
	"fmt"

	"polyglot-booking/internal/data/entity"
	"polyglot-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")

	// ErrNoChange may be returned by a PaymentMutation to release the row
	// lock without writing. UpdateLocked then returns the row as read.
	ErrNoChange = errors.New("no change")
)

const (
	uniqueViolationSQLState = "23505"

	paymentColumns = `id, reservation_id, user_id, amount::text, currency, payment_method, status,
		transaction_id, provider_reference, metadata, created_at, updated_at, completed_at`
)

// PaymentMutation edits a locked payment in place. Returning an error aborts
// the transaction and is passed back to the caller unchanged.
type PaymentMutation func(payment *entity.Payment) error

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id int64) (*entity.Payment, error)

	// UpdateLocked loads the row FOR UPDATE, applies mutate and persists the
	// result in the same transaction.
	UpdateLocked(ctx context.Context, id int64, mutate PaymentMutation) (*entity.Payment, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (reservation_id, user_id, amount, currency, payment_method, status,
		                      transaction_id, provider_reference, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, amount::text, created_at, updated_at
	`

	var amount string
	err := r.db.QueryRow(ctx, query,
		payment.ReservationID,
		payment.UserID,
		payment.Amount.String(),
		payment.Currency,
		string(payment.PaymentMethod),
		string(payment.Status),
		payment.TransactionID,
		payment.ProviderReference,
		metadataOrEmpty(payment.Metadata),
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID, &amount, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQLState {
			return fmt.Errorf("create payment %s: %w", payment.TransactionID, ErrDuplicateTransaction)
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("reservation_id", payment.ReservationID),
			zap.String("transaction_id", payment.TransactionID),
		)
		return fmt.Errorf("create payment for reservation %s: %w", payment.ReservationID, err)
	}

	// The caller caches this payment, so it must carry the stored values.
	payment.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", amount, err)
	}
	payment.CreatedAt = payment.CreatedAt.UTC()
	payment.UpdatedAt = payment.UpdatedAt.UTC()

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.Int64("payment_id", id),
		)
		return nil, fmt.Errorf("find payment by ID %d: %w", id, err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateLocked(ctx context.Context, id int64, mutate PaymentMutation) (*entity.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err), zap.Int64("payment_id", id))
		return nil, fmt.Errorf("begin transaction for payment %d: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	payment, err := scanPayment(tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment %d: %w", id, ErrPaymentNotFound)
	}
	if err != nil {
		r.log.Error("Failed to lock payment", zap.Error(err), zap.Int64("payment_id", id))
		return nil, fmt.Errorf("lock payment %d: %w", id, err)
	}

	if err := mutate(payment); err != nil {
		if errors.Is(err, ErrNoChange) {
			return payment, nil
		}
		return nil, err
	}

	update := `
		UPDATE payments
		SET status = $2, provider_reference = $3, metadata = $4, updated_at = $5, completed_at = $6
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, update,
		payment.ID,
		string(payment.Status),
		payment.ProviderReference,
		metadataOrEmpty(payment.Metadata),
		payment.UpdatedAt,
		payment.CompletedAt,
	); err != nil {
		r.log.Error("Failed to update payment",
			zap.Error(err),
			zap.Int64("payment_id", id),
			zap.String("status", string(payment.Status)),
		)
		return nil, fmt.Errorf("update payment %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit payment update", zap.Error(err), zap.Int64("payment_id", id))
		return nil, fmt.Errorf("commit payment %d: %w", id, err)
	}

	return payment, nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		payment entity.Payment
		amount  string
		method  string
		status  string
	)

	err := row.Scan(
		&payment.ID,
		&payment.ReservationID,
		&payment.UserID,
		&amount,
		&payment.Currency,
		&method,
		&status,
		&payment.TransactionID,
		&payment.ProviderReference,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&payment.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	payment.PaymentMethod = entity.PaymentMethod(method)
	payment.Status = entity.PaymentStatus(status)
	payment.CreatedAt = payment.CreatedAt.UTC()
	payment.UpdatedAt = payment.UpdatedAt.UTC()
	if payment.CompletedAt != nil {
		completedAt := payment.CompletedAt.UTC()
		payment.CompletedAt = &completedAt
	}
	if payment.Metadata == nil {
		payment.Metadata = entity.Metadata{}
	}

	return &payment, nil
}

func metadataOrEmpty(m entity.Metadata) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
