package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// ReservationRepository implements repository.ReservationRepository using PostgreSQL.
type ReservationRepository struct {
	pool database.DBTX
}

// NewReservationRepository creates a new PostgreSQL-backed reservation repository.
func NewReservationRepository(pool database.DBTX) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Create inserts a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, name, phone, guests, reserved_at, special_request, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		res.ID,
		res.UserID,
		res.Name,
		res.Phone,
		res.Guests,
		res.ReservedAt,
		res.SpecialRequest,
		res.Status,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	return nil
}

// GetByID retrieves a reservation by its ID.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `
		SELECT id, user_id, name, phone, guests, reserved_at, special_request, status, created_at, updated_at
		FROM reservations
		WHERE id = $1`

	var res domain.Reservation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.UserID,
		&res.Name,
		&res.Phone,
		&res.Guests,
		&res.ReservedAt,
		&res.SpecialRequest,
		&res.Status,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("reservation", id)
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}

	return &res, nil
}

// ListByUser returns the user's reservations, newest first, with the total count.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Reservation, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT id, user_id, name, phone, guests, reserved_at, special_request, status, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM reservations
		WHERE user_id = $1
		ORDER BY reserved_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var totalCount int
	reservations := make([]domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.Name,
			&res.Phone,
			&res.Guests,
			&res.ReservedAt,
			&res.SpecialRequest,
			&res.Status,
			&res.CreatedAt,
			&res.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, totalCount, nil
}

// UpdateStatus changes a reservation's status.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE reservations
		SET status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("reservation", id)
	}

	return nil
}
