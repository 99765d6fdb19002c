package domain

import "time"

// Order status constants.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a customer order. The line items and all price fields are
// frozen snapshots taken at creation time; later catalog changes never alter
// an existing order.
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Status          string         `json:"status"`
	Items           []OrderItem    `json:"items"`
	ShippingAddress Address        `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	ItemsPrice      int64          `json:"items_price"`
	ShippingPrice   int64          `json:"shipping_price"`
	TaxPrice        int64          `json:"tax_price"`
	TotalPrice      int64          `json:"total_price"`
	IsPaid          bool           `json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	IsDelivered     bool           `json:"is_delivered"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	PaymentResult   *PaymentResult `json:"payment_result,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OrderItem is a frozen snapshot of a cart line at order creation time.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
}

// Subtotal returns the line total (unit price times quantity).
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Address represents a shipping address.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
}

// PaymentResult records the outcome reported when an order is marked paid.
type PaymentResult struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time,omitempty"`
}

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
