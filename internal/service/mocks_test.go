package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/event"
	"github.com/mohamedrafeek-mr/FoodHub/internal/gateway"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	pkgkafka "github.com/mohamedrafeek-mr/FoodHub/pkg/kafka"
)

// --- Mock Repositories ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) GetLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *mockCartRepository) AddLine(ctx context.Context, userID, itemID string, qty int) error {
	args := m.Called(ctx, userID, itemID, qty)
	return args.Error(0)
}

func (m *mockCartRepository) SetLineQuantity(ctx context.Context, userID, itemID string, qty int) error {
	args := m.Called(ctx, userID, itemID, qty)
	return args.Error(0)
}

func (m *mockCartRepository) RemoveLine(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *mockCartRepository) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, params repository.CreateOrderParams) (*domain.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderID, from, to string) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPaymentRepository) CreateConfirmingOrder(ctx context.Context, p *domain.Payment, orderFrom, orderTo string) error {
	args := m.Called(ctx, p, orderFrom, orderTo)
	return args.Error(0)
}

func (m *mockPaymentRepository) Reconcile(ctx context.Context, gatewayOrderRef, gatewayPaymentRef string, verify repository.VerifyFunc) (*repository.ReconcileOutcome, error) {
	args := m.Called(ctx, gatewayOrderRef, gatewayPaymentRef, verify)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReconcileOutcome), args.Error(1)
}

func (m *mockPaymentRepository) LatestTerminalForUser(ctx context.Context, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type mockReservationRepository struct {
	mock.Mock
}

func (m *mockReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *mockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockReservationRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Reservation, int, error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).([]domain.Reservation), args.Int(1), args.Error(2)
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// --- Mock Gateway ---

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *mockPaymentGateway) VerifySignature(orderRef, paymentRef, signature string) bool {
	args := m.Called(orderRef, paymentRef, signature)
	return args.Bool(0)
}

func (m *mockPaymentGateway) KeyID() string {
	args := m.Called()
	return args.String(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProducer returns an event producer whose publishes fail silently in
// tests (no real broker).
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func strPtr(s string) *string {
	return &s
}
