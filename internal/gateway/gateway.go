package gateway

import "context"

// CreateOrderRequest asks the external provider to create a remote payment
// order. Amount is in the provider's minor currency unit.
type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// Order is the provider-side payment order the checkout UI is launched with.
type Order struct {
	// Reference is the provider's order id, later echoed back in the
	// confirmation as the external order reference.
	Reference string
	Amount    int64
	Currency  string
}

// PaymentGateway is the boundary to the external payment provider. Calls must
// be bounded: implementations time out and surface the gateway-unavailable
// error instead of hanging.
type PaymentGateway interface {
	// CreateOrder creates a remote payment order for the given amount.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	// VerifySignature checks a confirmation's authenticity.
	VerifySignature(orderRef, paymentRef, signature string) bool

	// KeyID returns the public key identifier the client-side checkout
	// needs to launch the provider's UI.
	KeyID() string
}
