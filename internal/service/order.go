package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/event"
	"github.com/copperline/shop/internal/repository"
	apperrors "github.com/copperline/shop/pkg/errors"
)

// Shipping is free above this items subtotal, otherwise a flat fee applies.
// Tax is a flat 10% of the items subtotal, truncated to the minor unit.
const (
	freeShippingThreshold int64 = 10000
	flatShippingFee       int64 = 1000
)

// OrderService implements the business logic for order operations.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateOrderInput holds the parameters for creating an order from the
// user's cart.
type CreateOrderInput struct {
	ShippingAddress domain.Address
	PaymentMethod   string
}

// CreateOrder builds an order from the user's cart. Line items snapshot the
// cart's unit prices and the catalog's current name and first image. After the
// order is persisted, stock is decremented per line and the cart is cleared;
// neither step shares a transaction with the order insert, so a crash in
// between leaves the order standing.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*domain.Order, error) {
	if input.PaymentMethod == "" {
		return nil, apperrors.InvalidInput("payment_method is required")
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.EmptyCart()
		}
		return nil, fmt.Errorf("get cart for order: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.EmptyCart()
	}

	ids := make([]string, len(cart.Items))
	for i, item := range cart.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve order products: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var itemsPrice int64
	items := make([]domain.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, apperrors.InconsistentCart(line.ProductID)
		}
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Image:     product.FirstImage(),
		}
		itemsPrice += items[i].Subtotal()
	}

	shippingPrice := flatShippingFee
	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	}
	taxPrice := itemsPrice / 10

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TaxPrice:        taxPrice,
		TotalPrice:      itemsPrice + shippingPrice + taxPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Best-effort: stock may go negative and a failed decrement does not
	// undo the order.
	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.ErrorContext(ctx, "failed to decrement stock",
				slog.String("order_id", order.ID),
				slog.String("product_id", item.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order",
			slog.String("order_id", order.ID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order. Non-admin callers may only see their own
// orders; a missing order reads as not found before any ownership check.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, apperrors.Forbidden("you do not have access to this order")
	}

	return order, nil
}

// ListOrders returns a filtered, paginated list of orders. Non-admin callers
// are always scoped to their own orders.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter, userID string, isAdmin bool) ([]domain.Order, int, error) {
	if !isAdmin {
		filter.UserID = &userID
	}
	clampPagination(&filter.Page, &filter.PerPage)

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// PayOrder marks an order as paid with the given payment result. The caller
// must own the order or be an admin.
func (s *OrderService) PayOrder(ctx context.Context, id string, result domain.PaymentResult, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for payment: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, apperrors.Forbidden("you do not have access to this order")
	}

	if err := s.orderRepo.MarkPaid(ctx, id, result); err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result
	order.UpdatedAt = now

	if err := s.producer.PublishOrderPaid(ctx, order.ID, result.ID, order.TotalPrice); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order paid",
		slog.String("order_id", order.ID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// MarkDelivered marks an order as delivered, setting the delivered status
// alongside the flag.
func (s *OrderService) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for delivery: %w", err)
	}

	if err := s.orderRepo.MarkDelivered(ctx, id); err != nil {
		return nil, fmt.Errorf("mark order delivered: %w", err)
	}

	oldStatus := order.Status
	now := time.Now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = domain.OrderStatusDelivered
	order.UpdatedAt = now

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, domain.OrderStatusDelivered); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order delivered", slog.String("order_id", id))

	return order, nil
}

// SetStatus changes an order's status to any valid value. The is_paid and
// is_delivered flags are left untouched regardless of the target status.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(domain.ValidOrderStatuses(), ", ")))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	oldStatus := order.Status

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

func clampPagination(page, perPage *int) {
	if *page <= 0 {
		*page = 1
	}
	if *perPage <= 0 {
		*perPage = 20
	}
	if *perPage > 100 {
		*perPage = 100
	}
}
