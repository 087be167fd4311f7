package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/event"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// OrderService implements the business logic for order operations.
type OrderService struct {
	repo        repository.OrderRepository
	producer    *event.Producer
	logger      *slog.Logger
	deliveryFee int64
}

// NewOrderService creates a new order service. A non-positive deliveryFee
// falls back to the default flat fee.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger, deliveryFee int64) *OrderService {
	if deliveryFee <= 0 {
		deliveryFee = domain.DefaultDeliveryFee
	}
	return &OrderService{
		repo:        repo,
		producer:    producer,
		logger:      logger,
		deliveryFee: deliveryFee,
	}
}

// CreateOrderInput holds the delivery details for placing an order.
type CreateOrderInput struct {
	UserID              string
	DeliveryAddress     string
	ContactPhone        string
	SpecialInstructions string
	// PaymentMethodHint preselects the payment method for the payment step.
	// Optional; the binding choice happens at payment initiation.
	PaymentMethodHint string
}

// CreateOrder converts the user's cart into an order. The cart lines are
// snapshotted at their current catalog prices and the cart is drained in the
// same transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if input.DeliveryAddress == "" {
		return nil, apperrors.InvalidInput("delivery_address is required")
	}
	if input.ContactPhone == "" {
		return nil, apperrors.InvalidInput("contact_phone is required")
	}
	if input.PaymentMethodHint != "" && !domain.IsValidPaymentMethod(input.PaymentMethodHint) {
		return nil, apperrors.InvalidInput("payment_method must be one of: cash, razorpay")
	}

	order, err := s.repo.CreateFromCart(ctx, repository.CreateOrderParams{
		UserID:              input.UserID,
		DeliveryAddress:     input.DeliveryAddress,
		ContactPhone:        input.ContactPhone,
		SpecialInstructions: input.SpecialInstructions,
		PaymentMethodHint:   input.PaymentMethodHint,
	})
	if err != nil {
		return nil, fmt.Errorf("create order from cart: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("user_id", order.UserID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order by number for the given user. An order
// belonging to another user reads as not found.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.UserID != userID {
		return nil, apperrors.NotFound("order", orderNumber)
	}

	return order, nil
}

// ListOrders returns the user's orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, userID string, status *string, page, perPage int) ([]domain.Order, int, error) {
	if status != nil && !domain.IsValidOrderStatus(*status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid order status: %s", *status))
	}

	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		UserID:  &userID,
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// Checkout returns the order together with its price quote. The quote adds
// the delivery fee and tax on top of the frozen line total.
func (s *OrderService) Checkout(ctx context.Context, userID, orderNumber string) (*domain.Order, domain.Quote, error) {
	order, err := s.GetOrder(ctx, userID, orderNumber)
	if err != nil {
		return nil, domain.Quote{}, err
	}

	return order, domain.ComputeQuote(order.TotalPrice, s.deliveryFee), nil
}

// UpdateStatus transitions an order to a new status. Used by the kitchen
// side of the house, so it is not scoped to the order's owner.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber, newStatus string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status: %s", newStatus))
	}

	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransition("order", order.Status, newStatus)
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, order.ID, oldStatus, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = newStatus

	if err := s.producer.PublishOrderStatusChanged(ctx, order, oldStatus, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return order, nil
}

// Cancel cancels the user's order. Only orders that have not started
// preparation can be cancelled.
func (s *OrderService) Cancel(ctx context.Context, userID, orderNumber, reason string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderNumber)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, apperrors.InvalidTransition("order", order.Status, domain.OrderStatusCancelled)
	}

	oldStatus := order.Status
	if err := s.repo.UpdateStatus(ctx, order.ID, oldStatus, domain.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order.Status = domain.OrderStatusCancelled

	if err := s.producer.PublishOrderCancelled(ctx, order, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.cancelled event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("previous_status", oldStatus),
	)

	return order, nil
}
