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
	"github.com/copperline/shop/internal/service"
	apperrors "github.com/copperline/shop/pkg/errors"
)

func testCartHandler(cartRepo *mockCartRepository, productRepo *mockProductRepository) *CartHandler {
	logger := testLogger()
	return NewCartHandler(service.NewCartService(cartRepo, productRepo, logger), logger)
}

func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Identity)
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(RequireAuth)
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{productId}", handler.UpdateItem)
		r.Delete("/items/{productId}", handler.RemoveItem)
	})
	return r
}

func TestGetCart_EmptyWhenMissing(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	cartRepo.On("Get", mock.Anything, "user-456").
		Return(nil, apperrors.NotFound("cart", "user-456"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// A missing cart reads as an empty one, not a 404.
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-456", data["user_id"])
	assert.Equal(t, float64(0), data["total_price"])

	cartRepo.AssertExpectations(t)
}

func TestGetCart_Unauthenticated(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestAddItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	product := sampleProduct()
	cartRepo.On("Get", mock.Anything, "user-456").
		Return(nil, apperrors.NotFound("cart", "user-456"))
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cartRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	body, _ := json.Marshal(AddItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5000), data["total_price"])

	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	productID := "550e8400-e29b-41d4-a716-446655440099"
	cartRepo.On("Get", mock.Anything, "user-456").
		Return(nil, apperrors.NotFound("cart", "user-456"))
	productRepo.On("GetByID", mock.Anything, productID).
		Return(nil, apperrors.NotFound("product", productID))

	body, _ := json.Marshal(AddItemRequest{ProductID: productID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddItem_ValidationError_ZeroQuantity(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	body, _ := json.Marshal(AddItemRequest{ProductID: "550e8400-e29b-41d4-a716-446655440020", Quantity: 0})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestUpdateItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	cart := sampleCart()
	cartRepo.On("Get", mock.Anything, "user-456").Return(cart, nil)
	cartRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	body, _ := json.Marshal(UpdateItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/550e8400-e29b-41d4-a716-446655440020", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12500), data["total_price"])

	cartRepo.AssertExpectations(t)
}

func TestUpdateItem_NotInCart(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	cart := sampleCart()
	cartRepo.On("Get", mock.Anything, "user-456").Return(cart, nil)

	body, _ := json.Marshal(UpdateItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/550e8400-e29b-41d4-a716-446655440099", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRemoveItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	cart := sampleCart()
	cartRepo.On("Get", mock.Anything, "user-456").Return(cart, nil)
	cartRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		return len(c.Items) == 0 && c.TotalPrice == 0
	})).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/550e8400-e29b-41d4-a716-446655440020", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cartRepo.AssertExpectations(t)
}

func TestClearCart_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	router := setupCartRouter(testCartHandler(cartRepo, productRepo))

	cartRepo.On("Delete", mock.Anything, "user-456").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	asUser(req, "user-456", "")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "cart cleared", resp.Message)

	cartRepo.AssertExpectations(t)
}
