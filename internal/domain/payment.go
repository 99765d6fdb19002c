package domain

import "time"

// Payment status constants.
const (
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusRefunded   = "refunded"
)

// Payment represents a payment record for an order. Amount is in minor
// currency units and is always copied from the order's total at creation.
type Payment struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"order_id"`
	UserID        string         `json:"user_id"`
	Method        string         `json:"method"`
	Amount        int64          `json:"amount"`
	Status        string         `json:"status"`
	TransactionID string         `json:"transaction_id"`
	Details       map[string]any `json:"details,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	RefundedAt    *time.Time     `json:"refunded_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CanRefund reports whether the payment is in a refundable state.
// Only completed payments can be refunded.
func (p *Payment) CanRefund() bool {
	return p.Status == PaymentStatusCompleted
}

// ValidPaymentStatuses returns all valid payment statuses.
func ValidPaymentStatuses() []string {
	return []string{
		PaymentStatusProcessing,
		PaymentStatusCompleted,
		PaymentStatusRefunded,
	}
}

// IsValidPaymentStatus checks if a status string is valid.
func IsValidPaymentStatus(status string) bool {
	for _, s := range ValidPaymentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
