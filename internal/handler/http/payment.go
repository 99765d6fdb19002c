package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/copperline/shop/internal/repository"
	"github.com/copperline/shop/internal/service"
	"github.com/copperline/shop/pkg/httputil"
	"github.com/copperline/shop/pkg/validator"
)

// PaymentHandler handles HTTP requests for payment endpoints.
type PaymentHandler struct {
	service *service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// CreatePaymentRequest is the JSON request body for creating a payment.
type CreatePaymentRequest struct {
	OrderID string         `json:"order_id" validate:"required,uuid"`
	Method  string         `json:"method" validate:"required"`
	Details map[string]any `json:"details"`
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreatePaymentRequest
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

	payment, err := h.service.CreatePayment(r.Context(), UserID(r.Context()), service.CreatePaymentInput{
		OrderID: req.OrderID,
		Method:  req.Method,
		Details: req.Details,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.OK(payment))
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := repository.PaymentFilter{Page: 1, PerPage: 20}

	if !parsePagination(w, r, &filter.Page, &filter.PerPage) {
		return
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		filter.UserID = &v
	}

	payments, total, err := h.service.ListPayments(r.Context(), filter, UserID(r.Context()), IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OKList(payments, total))
}

// GetPayment handles GET /api/v1/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id.String(), UserID(r.Context()), IsAdmin(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(payment))
}

// RefundPayment handles PUT /api/v1/payments/{id}/refund
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	payment, err := h.service.RefundPayment(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.OK(payment))
}
