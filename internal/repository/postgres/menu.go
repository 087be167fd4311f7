package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// MenuRepository implements repository.MenuRepository using PostgreSQL.
type MenuRepository struct {
	pool database.DBTX
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool database.DBTX) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// GetByID retrieves a menu item by its ID.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := `
		SELECT id, name, description, category, price, available, image_url, created_at, updated_at
		FROM menu_items
		WHERE id = $1`

	var m domain.MenuItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Category,
		&m.Price,
		&m.Available,
		&m.ImageURL,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("menu item", id)
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}

	return &m, nil
}

// ListAvailable returns all currently orderable menu items.
func (r *MenuRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	query := `
		SELECT id, name, description, category, price, available, image_url, created_at, updated_at
		FROM menu_items
		WHERE available = true
		ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.Category,
			&m.Price,
			&m.Available,
			&m.ImageURL,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}

	return items, nil
}
