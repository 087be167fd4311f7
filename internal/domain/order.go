package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order payment status constants.
const (
	OrderPaymentPending   = "pending"
	OrderPaymentCompleted = "completed"
	OrderPaymentFailed    = "failed"
)

// Order is an immutable financial snapshot of a cart at creation time. Only
// Status and PaymentStatus change after creation; TotalPrice and the line
// prices never do.
type Order struct {
	ID                  string      `json:"id"`
	OrderNumber         string      `json:"order_number"`
	UserID              string      `json:"user_id"`
	Status              string      `json:"status"`
	PaymentStatus       string      `json:"payment_status"`
	Lines               []OrderLine `json:"lines"`
	TotalPrice          int64       `json:"total_price"`
	DeliveryAddress     string      `json:"delivery_address"`
	ContactPhone        string      `json:"contact_phone"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	// PaymentMethod is the method the customer picked at order time. It is a
	// preference for the payment step, not a commitment; the actual method is
	// fixed when the payment is initiated.
	PaymentMethod     string     `json:"payment_method,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// OrderLine freezes a cart line's item and unit price at order time so later
// catalog price changes never alter historical orders.
type OrderLine struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the frozen total for this line.
func (l *OrderLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedOrderTransitions defines which status transitions are valid. The
// happy path is forward-only; cancellation is possible only before the
// kitchen starts preparing.
func AllowedOrderTransitions() map[string][]string {
	return map[string][]string{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
		OrderStatusPreparing: {OrderStatusReady},
		OrderStatusReady:     {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusCancelled: {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedOrderTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// CanCancel reports whether a user-initiated cancel is still accepted.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// NewOrderNumber generates a human-legible order number: "ORD-" followed by
// eight uppercase hex characters. Collisions are possible and handled by the
// repository with a unique-constraint retry.
func NewOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
