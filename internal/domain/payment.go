package domain

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment status constants. Both completed and failed are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment method constants.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodRazorpay = "razorpay"
)

// Payment is one attempt to pay for exactly one order. A retry after a failed
// attempt is a fresh Payment row; gateway references are never reused.
type Payment struct {
	ID                string    `json:"id"`
	OrderID           string    `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	UserID            string    `json:"user_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Method            string    `json:"method"`
	Status            string    `json:"status"`
	TransactionID     string    `json:"transaction_id"`
	GatewayOrderRef   string    `json:"gateway_order_ref,omitempty"`
	GatewayPaymentRef string    `json:"gateway_payment_ref,omitempty"`
	Signature         string    `json:"-"`
	FailureReason     string    `json:"failure_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValidPaymentStatuses returns all valid payment statuses.
func ValidPaymentStatuses() []string {
	return []string{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed}
}

// IsValidPaymentStatus checks whether the given status is valid.
func IsValidPaymentStatus(status string) bool {
	for _, s := range ValidPaymentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ValidPaymentMethods returns all valid payment methods.
func ValidPaymentMethods() []string {
	return []string{PaymentMethodCash, PaymentMethodRazorpay}
}

// IsValidPaymentMethod checks whether the given method is valid.
func IsValidPaymentMethod(method string) bool {
	for _, m := range ValidPaymentMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// AllowedPaymentTransitions defines the payment state machine.
func AllowedPaymentTransitions() map[string][]string {
	return map[string][]string{
		PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusCompleted: {},
		PaymentStatusFailed:    {},
	}
}

// CanTransitionTo checks if the payment can transition to the target status.
func (p *Payment) CanTransitionTo(target string) bool {
	allowed, ok := AllowedPaymentTransitions()[p.Status]
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

// IsTerminal reports whether the payment has reached a terminal status.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}

// NewTransactionID generates a local transaction id prefixed by the payment
// method category: COD- for cash, RAZ- for razorpay.
func NewTransactionID(method string) string {
	prefix := "RAZ-"
	if method == PaymentMethodCash {
		prefix = "COD-"
	}
	id := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(id[:6]))
}
