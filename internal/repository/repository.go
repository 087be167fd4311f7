package repository

import (
	"context"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
)

// CreateOrderParams carries the delivery details for converting a cart into
// an order.
type CreateOrderParams struct {
	UserID              string
	DeliveryAddress     string
	ContactPhone        string
	SpecialInstructions string
	PaymentMethodHint   string
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// CartRepository persists per-user cart lines. There is one cart per user;
// an empty line set is an empty cart.
type CartRepository interface {
	// GetLines returns the user's cart lines with live catalog names and prices.
	GetLines(ctx context.Context, userID string) ([]domain.CartLine, error)

	// AddLine inserts a line or merges the quantity into an existing line.
	AddLine(ctx context.Context, userID, itemID string, qty int) error

	// SetLineQuantity replaces a line's quantity; qty <= 0 removes the line.
	// Returns the line-not-found error when no line exists and qty > 0.
	SetLineQuantity(ctx context.Context, userID, itemID string, qty int) error

	// RemoveLine deletes a line; removing an absent line is not an error.
	RemoveLine(ctx context.Context, userID, itemID string) error

	// Clear removes all lines for the user.
	Clear(ctx context.Context, userID string) error
}

// OrderRepository persists orders and their frozen lines.
type OrderRepository interface {
	// CreateFromCart snapshots the user's cart into a new order and drains
	// the cart, all within one transaction. Fails with the empty-cart error
	// when the cart has no lines, persisting nothing.
	CreateFromCart(ctx context.Context, params CreateOrderParams) (*domain.Order, error)

	// GetByNumber retrieves an order by its order number, including lines.
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)

	// List returns orders matching the filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus transitions an order from one status to another. The
	// update is conditional on the current status so concurrent transitions
	// serialize; zero rows affected means the order moved underneath us.
	UpdateStatus(ctx context.Context, orderID, from, to string) error
}

// ReconcileOutcome is the result of applying a gateway confirmation.
type ReconcileOutcome struct {
	Payment *domain.Payment

	// AlreadyCompleted is true when the confirmation was a re-delivery for a
	// payment that had already completed; no state was changed.
	AlreadyCompleted bool
}

// VerifyFunc checks a confirmation's authenticity for the locked payment.
// It runs inside the reconciliation transaction.
type VerifyFunc func(p *domain.Payment) bool

// PaymentRepository persists payment attempts.
type PaymentRepository interface {
	// Create inserts a new pending payment.
	Create(ctx context.Context, p *domain.Payment) error

	// CreateConfirmingOrder inserts a payment and advances the order's
	// status in the same transaction (the offline-method path).
	CreateConfirmingOrder(ctx context.Context, p *domain.Payment, orderFrom, orderTo string) error

	// Reconcile locks the payment identified by gatewayOrderRef, runs verify
	// against it, and applies the terminal transition to the payment and its
	// order atomically. A verified confirmation completes both; a failed
	// verification marks both failed and returns the signature-mismatch
	// error. Re-delivery for a completed payment is a no-op success.
	Reconcile(ctx context.Context, gatewayOrderRef, gatewayPaymentRef string, verify VerifyFunc) (*ReconcileOutcome, error)

	// LatestTerminalForUser returns the user's most recent completed or
	// failed payment.
	LatestTerminalForUser(ctx context.Context, userID string) (*domain.Payment, error)
}

// MenuRepository reads the catalog. The catalog is managed elsewhere.
type MenuRepository interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
}

// ReservationRepository persists table bookings.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Reservation, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
