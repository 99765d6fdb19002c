package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/repository"
	"github.com/copperline/shop/internal/service"
	"github.com/copperline/shop/pkg/httputil"
	"github.com/copperline/shop/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// AddressRequest is the JSON shipping address in order requests.
type AddressRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Phone       string `json:"phone"`
}

// CreateOrderRequest is the JSON request body for creating an order from the
// authenticated user's cart.
type CreateOrderRequest struct {
	ShippingAddress AddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string         `json:"payment_method" validate:"required"`
}

// PayOrderRequest is the JSON request body for marking an order paid.
type PayOrderRequest struct {
	PaymentResultID string `json:"payment_result_id" validate:"required"`
	Status          string `json:"status" validate:"required"`
	UpdateTime      string `json:"update_time"`
}

// SetStatusRequest is the JSON request body for updating order status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), UserID(r.Context()), service.CreateOrderInput{
		ShippingAddress: domain.Address{
			FullName:    req.ShippingAddress.FullName,
			AddressLine: req.ShippingAddress.AddressLine,
			City:        req.ShippingAddress.City,
			PostalCode:  req.ShippingAddress.PostalCode,
			Country:     req.ShippingAddress.Country,
			Phone:       req.ShippingAddress.Phone,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(order))
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := repository.OrderFilter{Page: 1, PerPage: 20}

	if !parsePagination(w, r, &filter.Page, &filter.PerPage) {
		return
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	// Admins may filter by any user; everyone else is scoped server-side.
	if v := r.URL.Query().Get("user_id"); v != "" {
		filter.UserID = &v
	}

	orders, total, err := h.service.ListOrders(r.Context(), filter, UserID(r.Context()), IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OKList(orders, total))
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id.String(), UserID(r.Context()), IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(order))
}

// PayOrder handles PUT /api/v1/orders/{id}/pay
func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result := domain.PaymentResult{
		ID:         req.PaymentResultID,
		Status:     req.Status,
		UpdateTime: req.UpdateTime,
	}

	order, err := h.service.PayOrder(r.Context(), id.String(), result, UserID(r.Context()), IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(order))
}

// MarkDelivered handles PUT /api/v1/orders/{id}/deliver
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.MarkDelivered(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(order))
}

// SetStatus handles PUT /api/v1/orders/{id}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Success: false,
			Error:   &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.SetStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(order))
}
