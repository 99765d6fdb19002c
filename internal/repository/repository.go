package repository

import (
	"context"

	"github.com/copperline/shop/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Search   *string
	IsActive *bool
	Page     int
	PerPage  int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs retrieves all products matching the given IDs. Missing IDs are
	// simply absent from the result; callers decide how to treat them.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// DecrementStock atomically subtracts quantity from the product's stock.
	// There is no floor check; stock can go negative.
	DecrementStock(ctx context.Context, id string, quantity int) error

	// SetRating overwrites the product's rating and review count.
	SetRating(ctx context.Context, id string, rating float64, numReviews int) error
}

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves a cart by its user ID. Returns ErrNotFound when the user
	// has no cart.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart from the store.
	Delete(ctx context.Context, userID string) error
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its items into the store atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status of an order. Status flags (is_paid,
	// is_delivered) are untouched.
	UpdateStatus(ctx context.Context, id string, status string) error

	// MarkPaid sets is_paid, paid_at, and the payment result on an order.
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult) error

	// MarkDelivered sets is_delivered, delivered_at, and the delivered status.
	MarkDelivered(ctx context.Context, id string) error
}

// PaymentFilter defines filter criteria for listing payments.
type PaymentFilter struct {
	UserID  *string
	Page    int
	PerPage int
}

// PaymentRepository defines the interface for payment persistence operations.
type PaymentRepository interface {
	// Create inserts a new payment into the store.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// List returns payments matching the given filter along with the total count.
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, int, error)

	// MarkCompleted transitions a payment to completed and sets paid_at.
	MarkCompleted(ctx context.Context, id string) error

	// MarkRefunded transitions a payment to refunded and sets refunded_at.
	MarkRefunded(ctx context.Context, id string) error
}

// ReviewFilter defines filter criteria for listing reviews.
type ReviewFilter struct {
	ProductID *string
	UserID    *string
	Page      int
	PerPage   int
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review into the store.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetByProductAndUser retrieves the review a user left on a product.
	// Returns ErrNotFound when the user has not reviewed the product.
	GetByProductAndUser(ctx context.Context, productID, userID string) (*domain.Review, error)

	// List returns reviews matching the given filter along with the total count.
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, int, error)

	// Update modifies an existing review's rating, title, and comment.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// IncrementHelpful atomically adds one to the review's helpful counter.
	IncrementHelpful(ctx context.Context, id string) error

	// Summary recomputes the average rating and review count for a product
	// by rescanning all of its reviews.
	Summary(ctx context.Context, productID string) (domain.RatingSummary, error)
}
