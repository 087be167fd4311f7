package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/event"
	"github.com/mohamedrafeek-mr/FoodHub/internal/gateway"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// DefaultCurrency is the currency payments are charged in.
const DefaultCurrency = "INR"

// PaymentService implements the business logic for payment operations.
type PaymentService struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	gateway  gateway.PaymentGateway
	producer *event.Producer
	logger   *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	gw gateway.PaymentGateway,
	producer *event.Producer,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		orders:   orders,
		gateway:  gw,
		producer: producer,
		logger:   logger,
	}
}

// InitiateResult is what the client needs to proceed after initiating a
// payment. For the online method it carries the data to launch the provider's
// checkout UI; for cash on delivery the payment is already settled as far as
// order confirmation is concerned.
type InitiateResult struct {
	Payment *domain.Payment

	// Launch data for the provider checkout UI. Only set for the online
	// method.
	GatewayOrderRef string
	GatewayKeyID    string
	Amount          int64
	Currency        string
}

// Initiate starts a payment for the user's order. Cash on delivery confirms
// the order immediately; the online method creates a provider-side order and
// returns the checkout launch data, leaving the payment pending until the
// confirmation comes back.
func (s *PaymentService) Initiate(ctx context.Context, userID, orderNumber, method string) (*InitiateResult, error) {
	if method != domain.PaymentMethodCash && method != domain.PaymentMethodRazorpay {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported payment method: %s", method))
	}

	order, err := s.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order", orderNumber)
	}

	if order.PaymentStatus == domain.OrderPaymentCompleted {
		return nil, apperrors.Conflict(fmt.Sprintf("order %s is already paid", orderNumber))
	}
	if order.Status == domain.OrderStatusCancelled {
		return nil, apperrors.InvalidTransition("order", order.Status, domain.OrderStatusConfirmed)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        userID,
		Amount:        order.TotalPrice,
		Currency:      DefaultCurrency,
		Method:        method,
		Status:        domain.PaymentStatusPending,
		TransactionID: domain.NewTransactionID(method),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if method == domain.PaymentMethodCash {
		return s.initiateCash(ctx, order, payment)
	}

	return s.initiateOnline(ctx, order, payment)
}

func (s *PaymentService) initiateCash(ctx context.Context, order *domain.Order, payment *domain.Payment) (*InitiateResult, error) {
	// Accepting cash on delivery is itself the confirmation; the payment
	// stays pending until the courier collects.
	err := s.payments.CreateConfirmingOrder(ctx, payment, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("create cash payment: %w", err)
	}

	s.logger.InfoContext(ctx, "cash payment initiated",
		slog.String("payment_id", payment.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("transaction_id", payment.TransactionID),
	)

	return &InitiateResult{Payment: payment}, nil
}

func (s *PaymentService) initiateOnline(ctx context.Context, order *domain.Order, payment *domain.Payment) (*InitiateResult, error) {
	gwOrder, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   payment.Amount,
		Currency: payment.Currency,
		Receipt:  order.OrderNumber,
	})
	if err != nil {
		// Gateway-unavailable passes through so the caller can offer the
		// cash fallback.
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	payment.GatewayOrderRef = gwOrder.Reference

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.logger.InfoContext(ctx, "online payment initiated",
		slog.String("payment_id", payment.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("gateway_order_ref", payment.GatewayOrderRef),
	)

	return &InitiateResult{
		Payment:         payment,
		GatewayOrderRef: payment.GatewayOrderRef,
		GatewayKeyID:    s.gateway.KeyID(),
		Amount:          payment.Amount,
		Currency:        payment.Currency,
	}, nil
}

// ConfirmPaymentInput is the provider confirmation handed back by the client
// after the checkout UI finishes.
type ConfirmPaymentInput struct {
	GatewayOrderRef   string
	GatewayPaymentRef string
	Signature         string
}

// Reconcile applies a gateway confirmation. A verified confirmation completes
// the payment and confirms the order; a bad signature fails both and is never
// retried. Re-delivery of a confirmation for a completed payment is an
// idempotent success.
func (s *PaymentService) Reconcile(ctx context.Context, input ConfirmPaymentInput) (*domain.Payment, error) {
	if input.GatewayOrderRef == "" || input.GatewayPaymentRef == "" || input.Signature == "" {
		return nil, apperrors.InvalidInput("gateway order reference, payment reference and signature are required")
	}

	outcome, err := s.payments.Reconcile(ctx, input.GatewayOrderRef, input.GatewayPaymentRef, func(p *domain.Payment) bool {
		return s.gateway.VerifySignature(p.GatewayOrderRef, p.GatewayPaymentRef, input.Signature)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSignatureMismatch) {
			// Tampering or a stale replay, not an ordinary failure.
			s.logger.WarnContext(ctx, "payment signature mismatch",
				slog.String("security_event", "signature_mismatch"),
				slog.String("gateway_order_ref", input.GatewayOrderRef),
				slog.String("gateway_payment_ref", input.GatewayPaymentRef),
			)
			if outcome != nil && outcome.Payment != nil {
				s.publishOutcome(ctx, outcome.Payment)
			}
		}
		return nil, err
	}

	if !outcome.AlreadyCompleted {
		s.publishOutcome(ctx, outcome.Payment)
		s.logger.InfoContext(ctx, "payment completed",
			slog.String("payment_id", outcome.Payment.ID),
			slog.String("order_number", outcome.Payment.OrderNumber),
			slog.String("gateway_payment_ref", input.GatewayPaymentRef),
		)
	}

	return outcome.Payment, nil
}

// LatestOutcome returns the user's most recent completed or failed payment.
func (s *PaymentService) LatestOutcome(ctx context.Context, userID string) (*domain.Payment, error) {
	payment, err := s.payments.LatestTerminalForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest terminal payment: %w", err)
	}

	return payment, nil
}

func (s *PaymentService) publishOutcome(ctx context.Context, payment *domain.Payment) {
	if err := s.producer.PublishPaymentOutcome(ctx, payment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment outcome event",
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
	}
}
