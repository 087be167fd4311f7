package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

func newOrderService(repo *mockOrderRepository) *OrderService {
	return NewOrderService(repo, newTestProducer(), newTestLogger(), domain.DefaultDeliveryFee)
}

func sampleOrder(status string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:            "ord-id-1",
		OrderNumber:   "ORD-A1B2C3D4",
		UserID:        "user-1",
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

func TestOrderCreate_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	created := sampleOrder(domain.OrderStatusPending)
	repo.On("CreateFromCart", ctx, repository.CreateOrderParams{
		UserID:            "user-1",
		DeliveryAddress:   "12 MG Road, Bengaluru",
		ContactPhone:      "+919876543210",
		PaymentMethodHint: "cash",
	}).Return(created, nil)

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:            "user-1",
		DeliveryAddress:   "12 MG Road, Bengaluru",
		ContactPhone:      "+919876543210",
		PaymentMethodHint: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-A1B2C3D4", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	repo.AssertExpectations(t)
}

func TestOrderCreate_ValidatesDeliveryDetails(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing user", CreateOrderInput{DeliveryAddress: "a", ContactPhone: "p"}},
		{"missing address", CreateOrderInput{UserID: "user-1", ContactPhone: "p"}},
		{"missing phone", CreateOrderInput{UserID: "user-1", DeliveryAddress: "a"}},
		{"unknown payment hint", CreateOrderInput{UserID: "user-1", DeliveryAddress: "a", ContactPhone: "p", PaymentMethodHint: "cheque"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.CreateOrder(ctx, tt.input)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything)
}

func TestOrderCreate_EmptyCartPassesThrough(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("CreateFromCart", ctx, mock.AnythingOfType("repository.CreateOrderParams")).
		Return(nil, apperrors.EmptyCart())

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:          "user-1",
		DeliveryAddress: "12 MG Road, Bengaluru",
		ContactPhone:    "+919876543210",
	})
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderGet_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusConfirmed), nil)

	order, err := svc.GetOrder(ctx, "user-1", "ORD-A1B2C3D4")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}

func TestOrderGet_OtherUsersOrderReadsAsNotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusPending), nil)

	order, err := svc.GetOrder(ctx, "user-2", "ORD-A1B2C3D4")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderList_RejectsUnknownStatusFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)

	orders, total, err := svc.ListOrders(context.Background(), "user-1", strPtr("shipped"), 1, 10)
	assert.Nil(t, orders)
	assert.Zero(t, total)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestOrderList_ScopesToUser(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	userID := "user-1"
	repo.On("List", ctx, repository.OrderFilter{UserID: &userID, Page: 1, PerPage: 10}).
		Return([]domain.Order{*sampleOrder(domain.OrderStatusPending)}, 1, nil)

	orders, total, err := svc.ListOrders(ctx, "user-1", nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)
	repo.AssertExpectations(t)
}

func TestOrderCheckout_AddsFeeAndTax(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	o := sampleOrder(domain.OrderStatusPending)
	o.TotalPrice = 31550
	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(o, nil)

	order, quote, err := svc.Checkout(ctx, "user-1", "ORD-A1B2C3D4")
	require.NoError(t, err)

	assert.Equal(t, int64(31550), order.TotalPrice)
	assert.Equal(t, int64(31550), quote.Subtotal)
	assert.Equal(t, int64(5000), quote.DeliveryFee)
	assert.Equal(t, int64(1828), quote.Tax)
	assert.Equal(t, int64(38378), quote.GrandTotal)
}

func TestOrderUpdateStatus_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusConfirmed), nil)
	repo.On("UpdateStatus", ctx, "ord-id-1", domain.OrderStatusConfirmed, domain.OrderStatusPreparing).Return(nil)

	order, err := svc.UpdateStatus(ctx, "ORD-A1B2C3D4", domain.OrderStatusPreparing)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPreparing, order.Status)
	repo.AssertExpectations(t)
}

func TestOrderUpdateStatus_RejectsInvalidStatus(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)

	order, err := svc.UpdateStatus(context.Background(), "ORD-A1B2C3D4", "shipped")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByNumber", mock.Anything, mock.Anything)
}

func TestOrderUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusDelivered), nil)

	order, err := svc.UpdateStatus(ctx, "ORD-A1B2C3D4", domain.OrderStatusPreparing)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderCancel_PendingOrder(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusPending), nil)
	repo.On("UpdateStatus", ctx, "ord-id-1", domain.OrderStatusPending, domain.OrderStatusCancelled).Return(nil)

	order, err := svc.Cancel(ctx, "user-1", "ORD-A1B2C3D4", "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	repo.AssertExpectations(t)
}

func TestOrderCancel_PreparingOrderIsTooLate(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusPreparing), nil)

	order, err := svc.Cancel(ctx, "user-1", "ORD-A1B2C3D4", "")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderCancel_OtherUsersOrder(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newOrderService(repo)
	ctx := context.Background()

	repo.On("GetByNumber", ctx, "ORD-A1B2C3D4").Return(sampleOrder(domain.OrderStatusPending), nil)

	order, err := svc.Cancel(ctx, "user-2", "ORD-A1B2C3D4", "")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
