package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

const paymentColumns = `id, order_id, order_number, user_id, amount, currency, method, status, transaction_id, gateway_order_ref, gateway_payment_ref, failure_reason, created_at, updated_at`

// PaymentRepository implements repository.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	pool database.DBTX
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool database.DBTX) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a new pending payment.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, order_number, user_id, amount, currency, method, status, transaction_id, gateway_order_ref, gateway_payment_ref, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.OrderNumber,
		p.UserID,
		p.Amount,
		p.Currency,
		p.Method,
		p.Status,
		p.TransactionID,
		p.GatewayOrderRef,
		p.GatewayPaymentRef,
		p.FailureReason,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// CreateConfirmingOrder inserts a payment and advances the order's status in
// one transaction. Used by the offline path, where accepting the payment
// method IS the confirmation.
func (r *PaymentRepository) CreateConfirmingOrder(ctx context.Context, p *domain.Payment, orderFrom, orderTo string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO payments (id, order_id, order_number, user_id, amount, currency, method, status, transaction_id, gateway_order_ref, gateway_payment_ref, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.OrderNumber,
		p.UserID,
		p.Amount,
		p.Currency,
		p.Method,
		p.Status,
		p.TransactionID,
		p.GatewayOrderRef,
		p.GatewayPaymentRef,
		p.FailureReason,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	orderQuery := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	ct, err := tx.Exec(ctx, orderQuery, orderTo, time.Now().UTC(), p.OrderID, orderFrom)
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.InvalidTransition("order", orderFrom, orderTo)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Reconcile applies a gateway confirmation to the payment and its order in
// one transaction. The payment row is locked for the whole
// lookup -> verify -> dual-update unit so two near-simultaneous confirmations
// for the same gateway reference serialize.
func (r *PaymentRepository) Reconcile(ctx context.Context, gatewayOrderRef, gatewayPaymentRef string, verify repository.VerifyFunc) (*repository.ReconcileOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE gateway_order_ref = $1
		FOR UPDATE`

	var p domain.Payment
	err = tx.QueryRow(ctx, lockQuery, gatewayOrderRef).Scan(
		&p.ID,
		&p.OrderID,
		&p.OrderNumber,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.GatewayOrderRef,
		&p.GatewayPaymentRef,
		&p.FailureReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("payment", gatewayOrderRef)
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}

	// Re-delivery of a confirmation for a completed payment is an
	// idempotent success with no side effects.
	if p.Status == domain.PaymentStatusCompleted {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return &repository.ReconcileOutcome{Payment: &p, AlreadyCompleted: true}, nil
	}

	if p.Status == domain.PaymentStatusFailed {
		return nil, apperrors.InvalidTransition("payment", p.Status, domain.PaymentStatusCompleted)
	}

	now := time.Now().UTC()

	candidate := p
	candidate.GatewayPaymentRef = gatewayPaymentRef

	if !verify(&candidate) {
		// Mark the attempt failed; the failure sticks so a replayed or
		// tampered confirmation cannot be retried into a success.
		if _, err := tx.Exec(ctx,
			`UPDATE payments SET status = $1, failure_reason = $2, updated_at = $3 WHERE id = $4`,
			domain.PaymentStatusFailed, "signature verification failed", now, p.ID,
		); err != nil {
			return nil, fmt.Errorf("fail payment: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE orders SET payment_status = $1, updated_at = $2 WHERE id = $3`,
			domain.OrderPaymentFailed, now, p.OrderID,
		); err != nil {
			return nil, fmt.Errorf("fail order payment status: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		p.Status = domain.PaymentStatusFailed
		p.FailureReason = "signature verification failed"
		p.UpdatedAt = now
		// The failed payment rides along so the caller can report the
		// outcome; the error still signals the mismatch.
		return &repository.ReconcileOutcome{Payment: &p}, apperrors.SignatureMismatch()
	}

	if _, err := tx.Exec(ctx,
		`UPDATE payments SET status = $1, gateway_payment_ref = $2, updated_at = $3 WHERE id = $4`,
		domain.PaymentStatusCompleted, gatewayPaymentRef, now, p.ID,
	); err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}

	// The order confirms on successful payment; if it was already confirmed
	// (offline-then-online edge) only payment_status moves.
	if _, err := tx.Exec(ctx,
		`UPDATE orders
		 SET payment_status = $1,
		     status = CASE WHEN status = $2 THEN $3 ELSE status END,
		     updated_at = $4
		 WHERE id = $5`,
		domain.OrderPaymentCompleted, domain.OrderStatusPending, domain.OrderStatusConfirmed, now, p.OrderID,
	); err != nil {
		return nil, fmt.Errorf("complete order payment status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	p.Status = domain.PaymentStatusCompleted
	p.GatewayPaymentRef = gatewayPaymentRef
	p.UpdatedAt = now

	return &repository.ReconcileOutcome{Payment: &p}, nil
}

// LatestTerminalForUser returns the user's most recent completed or failed
// payment.
func (r *PaymentRepository) LatestTerminalForUser(ctx context.Context, userID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1 AND status IN ($2, $3)
		ORDER BY updated_at DESC
		LIMIT 1`

	var p domain.Payment
	err := r.pool.QueryRow(ctx, query, userID, domain.PaymentStatusCompleted, domain.PaymentStatusFailed).Scan(
		&p.ID,
		&p.OrderID,
		&p.OrderNumber,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.GatewayOrderRef,
		&p.GatewayPaymentRef,
		&p.FailureReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("payment", userID)
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return &p, nil
}
