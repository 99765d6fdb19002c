package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/copperline/shop/internal/domain"
	pkgkafka "github.com/copperline/shop/pkg/kafka"
)

// Kafka topic constants for shop domain events.
const (
	TopicOrderCreated         = "shop.order.created"
	TopicOrderPaid            = "shop.order.paid"
	TopicOrderStatusChanged   = "shop.order.status_changed"
	TopicPaymentCompleted     = "shop.payment.completed"
	TopicPaymentRefunded      = "shop.payment.refunded"
	TopicProductRatingUpdated = "shop.product.rating_updated"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypePayment = "payment"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from this service.
const SourceShopService = "shop-service"

// OrderCreatedData is the payload for an order.created event (full order snapshot).
type OrderCreatedData struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Status        string          `json:"status"`
	Items         []OrderItemData `json:"items"`
	ItemsPrice    int64           `json:"items_price"`
	ShippingPrice int64           `json:"shipping_price"`
	TaxPrice      int64           `json:"tax_price"`
	TotalPrice    int64           `json:"total_price"`
	PaymentMethod string          `json:"payment_method"`
}

// OrderItemData is the event payload for an order item.
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderPaidData is the payload for an order.paid event.
type OrderPaidData struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// PaymentCompletedData is the payload for a payment.completed event.
type PaymentCompletedData struct {
	PaymentID     string `json:"payment_id"`
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
}

// PaymentRefundedData is the payload for a payment.refunded event.
type PaymentRefundedData struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
}

// ProductRatingUpdatedData is the payload for a product.rating_updated event.
type ProductRatingUpdatedData struct {
	ProductID  string  `json:"product_id"`
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`
}

// Producer publishes shop domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order.created event with the full order snapshot.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	data := OrderCreatedData{
		ID:            order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		Items:         items,
		ItemsPrice:    order.ItemsPrice,
		ShippingPrice: order.ShippingPrice,
		TaxPrice:      order.TaxPrice,
		TotalPrice:    order.TotalPrice,
		PaymentMethod: order.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return nil
}

// PublishOrderPaid publishes an order.paid event.
func (p *Producer) PublishOrderPaid(ctx context.Context, orderID, paymentID string, amount int64) error {
	data := OrderPaidData{
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    amount,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPaid, orderID, AggregateTypeOrder, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create order.paid event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPaid, event); err != nil {
		return fmt.Errorf("publish order.paid event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.paid event",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
	)

	return nil
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	event, err := pkgkafka.NewEvent(TopicOrderStatusChanged, orderID, AggregateTypeOrder, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create order.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, event); err != nil {
		return fmt.Errorf("publish order.status_changed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.status_changed event",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return nil
}

// PublishPaymentCompleted publishes a payment.completed event.
func (p *Producer) PublishPaymentCompleted(ctx context.Context, payment *domain.Payment) error {
	data := PaymentCompletedData{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		TransactionID: payment.TransactionID,
	}

	event, err := pkgkafka.NewEvent(TopicPaymentCompleted, payment.ID, AggregateTypePayment, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create payment.completed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPaymentCompleted, event); err != nil {
		return fmt.Errorf("publish payment.completed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published payment.completed event",
		slog.String("payment_id", payment.ID),
		slog.String("order_id", payment.OrderID),
	)

	return nil
}

// PublishPaymentRefunded publishes a payment.refunded event.
func (p *Producer) PublishPaymentRefunded(ctx context.Context, payment *domain.Payment) error {
	data := PaymentRefundedData{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
	}

	event, err := pkgkafka.NewEvent(TopicPaymentRefunded, payment.ID, AggregateTypePayment, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create payment.refunded event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPaymentRefunded, event); err != nil {
		return fmt.Errorf("publish payment.refunded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published payment.refunded event",
		slog.String("payment_id", payment.ID),
		slog.String("order_id", payment.OrderID),
	)

	return nil
}

// PublishProductRatingUpdated publishes a product.rating_updated event.
func (p *Producer) PublishProductRatingUpdated(ctx context.Context, productID string, rating float64, numReviews int) error {
	data := ProductRatingUpdatedData{
		ProductID:  productID,
		Rating:     rating,
		NumReviews: numReviews,
	}

	event, err := pkgkafka.NewEvent(TopicProductRatingUpdated, productID, AggregateTypeProduct, SourceShopService, data)
	if err != nil {
		return fmt.Errorf("create product.rating_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductRatingUpdated, event); err != nil {
		return fmt.Errorf("publish product.rating_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.rating_updated event",
		slog.String("product_id", productID),
		slog.Float64("rating", rating),
		slog.Int("num_reviews", numReviews),
	)

	return nil
}
