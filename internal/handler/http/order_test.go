package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/repository"
	"github.com/copperline/shop/internal/service"
	apperrors "github.com/copperline/shop/pkg/errors"
)

func testOrderHandler(orderRepo *mockOrderRepository, cartRepo *mockCartRepository, productRepo *mockProductRepository) *OrderHandler {
	logger := testLogger()
	svc := service.NewOrderService(orderRepo, cartRepo, productRepo, testEventProducer(), logger)
	return NewOrderHandler(svc, logger)
}

// setupOrderRouter creates a chi router matching the production route layout.
func setupOrderRouter(handler *OrderHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Identity)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(RequireAuth)
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrder)
		r.Put("/{id}/pay", handler.PayOrder)
		r.With(RequireAdmin).Put("/{id}/deliver", handler.MarkDelivered)
		r.With(RequireAdmin).Put("/{id}/status", handler.SetStatus)
	})
	return r
}

// validCreateOrderJSON returns a valid JSON body for POST /api/v1/orders.
func validCreateOrderJSON() []byte {
	body := CreateOrderRequest{
		ShippingAddress: AddressRequest{
			FullName:    "Jordan Reyes",
			AddressLine: "14 Harbour Lane",
			City:        "Rotterdam",
			PostalCode:  "3011 AB",
			Country:     "NL",
			Phone:       "+31105551234",
		},
		PaymentMethod: "card",
	}
	b, _ := json.Marshal(body)
	return b
}

// ============================================================================
// POST /api/v1/orders - CreateOrder
// ============================================================================

func TestCreateOrder_Success(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	cart := sampleCart()
	product := sampleProduct()
	cartRepo.On("Get", mock.Anything, "user-456").Return(cart, nil)
	productRepo.On("GetByIDs", mock.Anything, []string{product.ID}).
		Return([]domain.Product{*product}, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	productRepo.On("DecrementStock", mock.Anything, product.ID, 2).Return(nil)
	cartRepo.On("Delete", mock.Anything, "user-456").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(validCreateOrderJSON()))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Data)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-456", data["user_id"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "card", data["payment_method"])
	assert.Equal(t, float64(5000), data["items_price"])
	assert.Equal(t, float64(1000), data["shipping_price"])
	assert.Equal(t, float64(500), data["tax_price"])
	assert.Equal(t, float64(6500), data["total_price"])

	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(validCreateOrderJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{invalid json`)))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestCreateOrder_ValidationError_MissingPaymentMethod(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	body := CreateOrderRequest{
		ShippingAddress: AddressRequest{
			FullName:    "Jordan Reyes",
			AddressLine: "14 Harbour Lane",
			City:        "Rotterdam",
			PostalCode:  "3011 AB",
			Country:     "NL",
		},
	}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotNil(t, resp.Error.Fields)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	cartRepo.On("Get", mock.Anything, "user-456").
		Return(nil, apperrors.NotFound("cart", "user-456"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(validCreateOrderJSON()))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)

	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/orders - ListOrders
// ============================================================================

func TestListOrders_ScopedToUser(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	// Non-admin listing is always scoped to the caller server-side.
	orderRepo.On("List", mock.Anything, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.UserID != nil && *f.UserID == "user-456" && f.Page == 1 && f.PerPage == 20
	})).Return([]domain.Order{*sampleOrder()}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)

	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)

	orderRepo.AssertExpectations(t)
}

func TestListOrders_InvalidPage(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=abc", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "page")
}

func TestListOrders_PerPageTooLarge(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?per_page=101", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

// ============================================================================
// GET /api/v1/orders/{id} - GetOrder
// ============================================================================

func TestGetOrder_Success(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, order.ID, data["id"])
	assert.Equal(t, "user-456", data["user_id"])
	assert.Equal(t, float64(13200), data["total_price"])

	orderRepo.AssertExpectations(t)
}

func TestGetOrder_OtherUserForbidden(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	asUser(req, "user-999", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestGetOrder_AdminCanReadAny(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	asUser(req, "admin-1", RoleAdmin)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	orderRepo.AssertExpectations(t)
}

func TestGetOrder_NotFound(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	orderID := "550e8400-e29b-41d4-a716-446655440099"
	orderRepo.On("GetByID", mock.Anything, orderID).
		Return(nil, apperrors.NotFound("order", orderID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetOrder_InvalidUUID(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid UUID")
}

// ============================================================================
// PUT /api/v1/orders/{id}/pay - PayOrder
// ============================================================================

func TestPayOrder_Success(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	result := domain.PaymentResult{ID: "pi_abc123", Status: "completed", UpdateTime: "2026-01-05T10:00:00Z"}
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("MarkPaid", mock.Anything, order.ID, result).Return(nil)

	body, _ := json.Marshal(PayOrderRequest{
		PaymentResultID: "pi_abc123",
		Status:          "completed",
		UpdateTime:      "2026-01-05T10:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID+"/pay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["is_paid"])

	orderRepo.AssertExpectations(t)
}

func TestPayOrder_OtherUserForbidden(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	body, _ := json.Marshal(PayOrderRequest{PaymentResultID: "pi_abc123", Status: "completed"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID+"/pay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-999", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

// ============================================================================
// PUT /api/v1/orders/{id}/deliver - MarkDelivered (admin)
// ============================================================================

func TestMarkDelivered_Success(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("MarkDelivered", mock.Anything, order.ID).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID+"/deliver", nil)
	asUser(req, "admin-1", RoleAdmin)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["is_delivered"])
	assert.Equal(t, "delivered", data["status"])

	orderRepo.AssertExpectations(t)
}

func TestMarkDelivered_NonAdminForbidden(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/550e8400-e29b-41d4-a716-446655440001/deliver", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	orderRepo.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything)
}

// ============================================================================
// PUT /api/v1/orders/{id}/status - SetStatus (admin)
// ============================================================================

func TestSetStatus_Success(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	order := sampleOrder()
	orderRepo.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("UpdateStatus", mock.Anything, order.ID, "shipped").Return(nil)

	body, _ := json.Marshal(SetStatusRequest{Status: "shipped"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+order.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "admin-1", RoleAdmin)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "shipped", data["status"])

	orderRepo.AssertExpectations(t)
}

func TestSetStatus_RejectsAmericanSpelling(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	// The status vocabulary uses "cancelled"; "canceled" must not pass.
	body, _ := json.Marshal(SetStatusRequest{Status: "canceled"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/550e8400-e29b-41d4-a716-446655440001/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "admin-1", RoleAdmin)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatus_NonAdminForbidden(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	body, _ := json.Marshal(SetStatusRequest{Status: "shipped"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/550e8400-e29b-41d4-a716-446655440001/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ============================================================================
// ContentTypeJSON middleware
// ============================================================================

func TestContentTypeJSON_RejectsXML(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`<xml/>`)))
	req.Header.Set("Content-Type", "application/xml")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestContentTypeJSON_AcceptsCharsetSuffix(t *testing.T) {
	orderRepo := new(mockOrderRepository)
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupOrderRouter(testOrderHandler(orderRepo, cartRepo, productRepo))

	cart := sampleCart()
	product := sampleProduct()
	cartRepo.On("Get", mock.Anything, "user-456").Return(cart, nil)
	productRepo.On("GetByIDs", mock.Anything, []string{product.ID}).
		Return([]domain.Product{*product}, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	productRepo.On("DecrementStock", mock.Anything, product.ID, 2).Return(nil)
	cartRepo.On("Delete", mock.Anything, "user-456").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(validCreateOrderJSON()))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	orderRepo.AssertExpectations(t)
}
