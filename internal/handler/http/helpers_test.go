package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/event"
	"github.com/copperline/shop/internal/repository"
	"github.com/copperline/shop/pkg/httputil"
	pkgkafka "github.com/copperline/shop/pkg/kafka"
)

// --- Mock repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *mockProductRepository) SetRating(ctx context.Context, id string, rating float64, numReviews int) error {
	args := m.Called(ctx, id, rating, numReviews)
	return args.Error(0)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *mockOrderRepository) MarkDelivered(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Payment), args.Int(1), args.Error(2)
}

func (m *mockPaymentRepository) MarkCompleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPaymentRepository) MarkRefunded(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) GetByProductAndUser(ctx context.Context, productID, userID string) (*domain.Review, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) IncrementHelpful(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepository) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

// asUser sets the identity headers the gateway would inject.
func asUser(req *http.Request, userID, role string) *http.Request {
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	return req
}

// decodeResponse reads the response body into the httputil.Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// --- Fixtures ---

func sampleProduct() *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:          "550e8400-e29b-41d4-a716-446655440020",
		Name:        "Wireless Mouse",
		Slug:        "wireless-mouse",
		Description: "Compact 2.4GHz wireless mouse",
		SKU:         "WM-2400-BLK",
		Price:       2500,
		Images:      []string{"https://cdn.example.com/wm-2400.jpg"},
		Stock:       40,
		Rating:      4.2,
		NumReviews:  7,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		UserID: "user-456",
		Items: []domain.CartItem{
			{
				ProductID: "550e8400-e29b-41d4-a716-446655440020",
				Name:      "Wireless Mouse",
				Price:     2500,
				Quantity:  2,
				ImageURL:  "https://cdn.example.com/wm-2400.jpg",
			},
		},
		TotalPrice: 5000,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:     "550e8400-e29b-41d4-a716-446655440001",
		UserID: "user-456",
		Status: domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{
				ProductID: "550e8400-e29b-41d4-a716-446655440020",
				Name:      "Wireless Mouse",
				Quantity:  2,
				Price:     6000,
				Image:     "https://cdn.example.com/wm-2400.jpg",
			},
		},
		ShippingAddress: domain.Address{
			FullName:    "Jordan Reyes",
			AddressLine: "14 Harbour Lane",
			City:        "Rotterdam",
			PostalCode:  "3011 AB",
			Country:     "NL",
			Phone:       "+31105551234",
		},
		PaymentMethod: "card",
		ItemsPrice:    12000,
		ShippingPrice: 0,
		TaxPrice:      1200,
		TotalPrice:    13200,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func samplePayment() *domain.Payment {
	now := time.Now().UTC()
	return &domain.Payment{
		ID:            "550e8400-e29b-41d4-a716-446655440030",
		OrderID:       "550e8400-e29b-41d4-a716-446655440001",
		UserID:        "user-456",
		Method:        "card",
		Amount:        13200,
		Status:        domain.PaymentStatusCompleted,
		TransactionID: "TXN-1700000000-abc123def456",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func sampleReview() *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		ID:        "550e8400-e29b-41d4-a716-446655440040",
		ProductID: "550e8400-e29b-41d4-a716-446655440020",
		UserID:    "user-456",
		Rating:    5,
		Title:     "Works great",
		Comment:   "Quiet clicks and the battery lasts for months.",
		Helpful:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
