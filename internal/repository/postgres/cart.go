package postgres

import (
	"context"
	"fmt"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
// Lines live in cart_items keyed by (user_id, item_id); prices come from the
// menu at read time.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetLines returns the user's cart lines joined with live catalog data.
func (r *CartRepository) GetLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	query := `
		SELECT ci.item_id, m.name, m.price, ci.quantity, ci.created_at, ci.updated_at
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.item_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}

// AddLine inserts a line or merges the quantity into an existing one. The
// upsert is a single statement so concurrent adds for the same item
// accumulate instead of clobbering each other.
func (r *CartRepository) AddLine(ctx context.Context, userID, itemID string, qty int) error {
	if qty < 1 {
		return apperrors.InvalidQuantity(qty)
	}

	query := `
		INSERT INTO cart_items (user_id, item_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, userID, itemID, qty); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("menu item", itemID)
		}
		return fmt.Errorf("upsert cart line: %w", err)
	}

	return nil
}

// SetLineQuantity replaces a line's quantity. qty <= 0 removes the line;
// updating an absent line is an error rather than an upsert.
func (r *CartRepository) SetLineQuantity(ctx context.Context, userID, itemID string, qty int) error {
	if qty <= 0 {
		return r.RemoveLine(ctx, userID, itemID)
	}

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = now()
		WHERE user_id = $2 AND item_id = $3`

	ct, err := r.pool.Exec(ctx, query, qty, userID, itemID)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.LineNotFound(itemID)
	}

	return nil
}

// RemoveLine deletes a line. Removing an absent line is a no-op.
func (r *CartRepository) RemoveLine(ctx context.Context, userID, itemID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND item_id = $2`

	if _, err := r.pool.Exec(ctx, query, userID, itemID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}

	return nil
}

// Clear removes all lines for the user.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}
