package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	pkgkafka "github.com/mohamedrafeek-mr/FoodHub/pkg/kafka"
)

// Kafka topic constants for domain events.
const (
	TopicOrderCreated       = "foodhub.order.created"
	TopicOrderStatusChanged = "foodhub.order.status_changed"
	TopicOrderCancelled     = "foodhub.order.cancelled"
	TopicPaymentCompleted   = "foodhub.payment.completed"
	TopicPaymentFailed      = "foodhub.payment.failed"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypePayment = "payment"
)

// Source identifier for events originating from this service.
const Source = "foodhub"

// OrderCreatedData is the payload for an order.created event (full snapshot).
type OrderCreatedData struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        string          `json:"user_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Lines         []OrderLineData `json:"lines"`
	TotalPrice    int64           `json:"total_price"`
}

// OrderLineData is the event payload for a frozen order line.
type OrderLineData struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
}

// OrderCancelledData is the payload for an order.cancelled event.
type OrderCancelledData struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason,omitempty"`
}

// PaymentOutcomeData is the payload for payment.completed and payment.failed.
type PaymentOutcomeData struct {
	PaymentID     string `json:"payment_id"`
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Producer publishes domain events to Kafka. Publishing is best effort:
// callers log failures and never fail the request over them.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new domain event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishOrderCreated publishes an order.created event with the full snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	lines := make([]OrderLineData, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = OrderLineData{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}

	data := OrderCreatedData{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Lines:         lines,
		TotalPrice:    order.TotalPrice,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, order *domain.Order, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, order.ID, AggregateTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	return nil
}

// PublishOrderCancelled publishes an order.cancelled event.
func (p *Producer) PublishOrderCancelled(ctx context.Context, order *domain.Order, reason string) error {
	data := OrderCancelledData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Reason:      reason,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCancelled, order.ID, AggregateTypeOrder, Source, data)
	if err != nil {
		return fmt.Errorf("create order.cancelled event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCancelled, event); err != nil {
		return fmt.Errorf("publish order.cancelled event: %w", err)
	}

	return nil
}

// PublishPaymentOutcome publishes payment.completed or payment.failed
// depending on the payment's terminal status.
func (p *Producer) PublishPaymentOutcome(ctx context.Context, payment *domain.Payment) error {
	topic := TopicPaymentCompleted
	if payment.Status == domain.PaymentStatusFailed {
		topic = TopicPaymentFailed
	}

	data := PaymentOutcomeData{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		OrderNumber:   payment.OrderNumber,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
		FailureReason: payment.FailureReason,
	}

	event, err := pkgkafka.NewEvent(topic, payment.ID, AggregateTypePayment, Source, data)
	if err != nil {
		return fmt.Errorf("create payment outcome event: %w", err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish payment outcome event: %w", err)
	}

	p.logger.DebugContext(ctx, "published payment outcome event",
		slog.String("topic", topic),
		slog.String("payment_id", payment.ID),
	)

	return nil
}
