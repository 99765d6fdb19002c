package service

import (
	"context"
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

// PaymentService implements the business logic for payment operations.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreatePaymentInput holds the parameters for creating a payment.
type CreatePaymentInput struct {
	OrderID string
	Method  string
	Details map[string]any
}

// CreatePayment records a payment for an order. Only the order's owner may
// pay it. The amount always comes from the order's total; the transaction id
// is generated here and its uniqueness is not re-checked. The payment is
// created processing, the order marked paid, then the payment completed;
// these three writes do not share a transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, userID string, input CreatePaymentInput) (*domain.Payment, error) {
	if input.OrderID == "" {
		return nil, apperrors.InvalidInput("order_id is required")
	}
	if input.Method == "" {
		return nil, apperrors.InvalidInput("method is required")
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order for payment: %w", err)
	}

	if order.UserID != userID {
		return nil, apperrors.Forbidden("you do not have access to this order")
	}

	if order.IsPaid {
		return nil, apperrors.InvalidState(fmt.Sprintf("order %s is already paid", order.ID))
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		UserID:        userID,
		Method:        input.Method,
		Amount:        order.TotalPrice,
		Status:        domain.PaymentStatusProcessing,
		TransactionID: newTransactionID(now),
		Details:       input.Details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	result := domain.PaymentResult{
		ID:         payment.TransactionID,
		Status:     domain.PaymentStatusCompleted,
		UpdateTime: now.Format(time.RFC3339),
	}
	if err := s.orderRepo.MarkPaid(ctx, order.ID, result); err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	if err := s.paymentRepo.MarkCompleted(ctx, payment.ID); err != nil {
		return nil, fmt.Errorf("mark payment completed: %w", err)
	}

	payment.Status = domain.PaymentStatusCompleted
	payment.PaidAt = &now
	payment.UpdatedAt = now

	if err := s.producer.PublishPaymentCompleted(ctx, payment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment.completed event",
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.producer.PublishOrderPaid(ctx, order.ID, payment.ID, payment.Amount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "payment created",
		slog.String("payment_id", payment.ID),
		slog.String("order_id", order.ID),
		slog.Int64("amount", payment.Amount),
	)

	return payment, nil
}

// newTransactionID builds a TXN-prefixed id from the current timestamp and a
// random suffix. Collisions are theoretically possible and not checked.
func newTransactionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("TXN-%d-%s", now.Unix(), suffix)
}

// RefundPayment refunds a completed payment and cancels its order. The order
// cancellation is best-effort: if it fails the payment stays refunded.
func (s *PaymentService) RefundPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment for refund: %w", err)
	}

	if !payment.CanRefund() {
		return nil, apperrors.InvalidState(fmt.Sprintf("payment in status %q cannot be refunded", payment.Status))
	}

	if err := s.paymentRepo.MarkRefunded(ctx, id); err != nil {
		return nil, fmt.Errorf("mark payment refunded: %w", err)
	}

	now := time.Now().UTC()
	payment.Status = domain.PaymentStatusRefunded
	payment.RefundedAt = &now
	payment.UpdatedAt = now

	if err := s.orderRepo.UpdateStatus(ctx, payment.OrderID, domain.OrderStatusCancelled); err != nil {
		s.logger.ErrorContext(ctx, "failed to cancel order after refund",
			slog.String("payment_id", id),
			slog.String("order_id", payment.OrderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishPaymentRefunded(ctx, payment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish payment.refunded event",
			slog.String("payment_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "payment refunded",
		slog.String("payment_id", id),
		slog.String("order_id", payment.OrderID),
	)

	return payment, nil
}

// GetPayment retrieves a payment. Non-admin callers may only see their own
// payments; a missing payment reads as not found before any ownership check.
func (s *PaymentService) GetPayment(ctx context.Context, id, userID string, isAdmin bool) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	if !isAdmin && payment.UserID != userID {
		return nil, apperrors.Forbidden("you do not have access to this payment")
	}

	return payment, nil
}

// ListPayments returns a filtered, paginated list of payments. Non-admin
// callers are always scoped to their own payments.
func (s *PaymentService) ListPayments(ctx context.Context, filter repository.PaymentFilter, userID string, isAdmin bool) ([]domain.Payment, int, error) {
	if !isAdmin {
		filter.UserID = &userID
	}
	clampPagination(&filter.Page, &filter.PerPage)

	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}
