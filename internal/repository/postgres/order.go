package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/database"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// estimatedDeliveryWindow is added to the creation time for the customer's
// estimated delivery.
const estimatedDeliveryWindow = 30 * time.Minute

// orderNumberAttempts bounds the regenerate-and-retry loop on order number
// collisions.
const orderNumberAttempts = 3

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateFromCart converts the user's cart into an order inside a single
// transaction: the cart lines are locked, snapshotted into order lines at
// their current catalog prices, and deleted. Nothing is persisted when the
// cart is empty. An order number collision aborts the transaction and the
// whole unit retries with a fresh number.
func (r *OrderRepository) CreateFromCart(ctx context.Context, params repository.CreateOrderParams) (*domain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err := r.createFromCartOnce(ctx, params)
		if err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return order, nil
	}
	return nil, fmt.Errorf("create order: order number collisions exhausted retries: %w", lastErr)
}

func (r *OrderRepository) createFromCartOnce(ctx context.Context, params repository.CreateOrderParams) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the cart lines so a concurrent mutation or second checkout for
	// the same user serializes behind this transaction.
	lineQuery := `
		SELECT ci.item_id, m.name, m.price, ci.quantity
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.item_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
		FOR UPDATE OF ci`

	rows, err := tx.Query(ctx, lineQuery, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock cart lines: %w", err)
	}

	var lines []domain.OrderLine
	var total int64
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		total += l.LineTotal()
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	if len(lines) == 0 {
		return nil, apperrors.EmptyCart()
	}

	now := time.Now().UTC()
	eta := now.Add(estimatedDeliveryWindow)
	order := &domain.Order{
		ID:                  uuid.New().String(),
		OrderNumber:         domain.NewOrderNumber(),
		UserID:              params.UserID,
		Status:              domain.OrderStatusPending,
		PaymentStatus:       domain.OrderPaymentPending,
		TotalPrice:          total,
		DeliveryAddress:     params.DeliveryAddress,
		ContactPhone:        params.ContactPhone,
		SpecialInstructions: params.SpecialInstructions,
		PaymentMethod:       params.PaymentMethodHint,
		EstimatedDelivery:   &eta,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	orderQuery := `
		INSERT INTO orders (id, order_number, user_id, status, payment_status, total_price, delivery_address, contact_phone, special_instructions, payment_method, estimated_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.PaymentStatus,
		order.TotalPrice,
		order.DeliveryAddress,
		order.ContactPhone,
		order.SpecialInstructions,
		order.PaymentMethod,
		order.EstimatedDelivery,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	lineInsert := `
		INSERT INTO order_lines (id, order_id, item_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range lines {
		lines[i].ID = uuid.New().String()
		lines[i].OrderID = order.ID
		_, err = tx.Exec(ctx, lineInsert,
			lines[i].ID,
			lines[i].OrderID,
			lines[i].ItemID,
			lines[i].Name,
			lines[i].UnitPrice,
			lines[i].Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}
	}
	order.Lines = lines

	// Drain the cart in the same transaction.
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, params.UserID); err != nil {
		return nil, fmt.Errorf("drain cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return order, nil
}

// GetByNumber retrieves an order by its order number, eagerly loading lines.
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `
		SELECT id, order_number, user_id, status, payment_status, total_price, delivery_address, contact_phone, special_instructions, payment_method, estimated_delivery, created_at, updated_at
		FROM orders
		WHERE order_number = $1`

	var o domain.Order
	err := r.pool.QueryRow(ctx, query, orderNumber).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.TotalPrice,
		&o.DeliveryAddress,
		&o.ContactPhone,
		&o.SpecialInstructions,
		&o.PaymentMethod,
		&o.EstimatedDelivery,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", orderNumber)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	lines, err := r.loadOrderLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return &o, nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, order_number, user_id, status, payment_status, total_price, delivery_address, contact_phone, special_instructions, payment_method, estimated_delivery, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.UserID,
			&o.Status,
			&o.PaymentStatus,
			&o.TotalPrice,
			&o.DeliveryAddress,
			&o.ContactPhone,
			&o.SpecialInstructions,
			&o.PaymentMethod,
			&o.EstimatedDelivery,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load lines for all orders in a single query to avoid N+1.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		lineQuery := `
			SELECT id, order_id, item_id, name, unit_price, quantity
			FROM order_lines
			WHERE order_id = ANY($1)
			ORDER BY id`

		lineRows, err := r.pool.Query(ctx, lineQuery, orderIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load order lines: %w", err)
		}
		defer lineRows.Close()

		linesByOrderID := make(map[string][]domain.OrderLine, len(orders))
		for lineRows.Next() {
			var l domain.OrderLine
			if err := lineRows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
				return nil, 0, fmt.Errorf("scan order line: %w", err)
			}
			linesByOrderID[l.OrderID] = append(linesByOrderID[l.OrderID], l)
		}
		if err := lineRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate batch order line rows: %w", err)
		}

		for i := range orders {
			if lines, ok := linesByOrderID[orders[i].ID]; ok {
				orders[i].Lines = lines
			} else {
				orders[i].Lines = []domain.OrderLine{}
			}
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus transitions an order between two statuses. The WHERE clause
// includes the expected current status so a concurrent transition makes this
// a zero-row update instead of a lost write.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, from, to string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`

	ct, err := r.pool.Exec(ctx, query, to, time.Now().UTC(), orderID, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.InvalidTransition("order", from, to)
	}

	return nil
}

func (r *OrderRepository) loadOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	query := `
		SELECT id, order_id, item_id, name, unit_price, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}

	return lines, nil
}
