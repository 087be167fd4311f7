package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/event"
	"github.com/mohamedrafeek-mr/FoodHub/internal/gateway"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/httputil"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEventProducer returns a producer whose publishes fail silently in tests
// (no real broker).
func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

// decodeResponse reads the response body into the httputil.Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// sampleOrder returns a realistic order for use in test expectations.
func sampleOrder(status string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:            "ord-id-1",
		OrderNumber:   "ORD-A1B2C3D4",
		UserID:        "user-456",
		Status:        status,
		PaymentStatus: domain.OrderPaymentPending,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "ord-id-1", ItemID: "item-1", Name: "Margherita Pizza", UnitPrice: 29900, Quantity: 1},
		},
		TotalPrice:      29900,
		DeliveryAddress: "12 MG Road, Bengaluru",
		ContactPhone:    "+919876543210",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
