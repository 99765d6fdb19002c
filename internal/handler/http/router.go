package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/copperline/shop/internal/service"
	"github.com/copperline/shop/pkg/health"
	"github.com/copperline/shop/pkg/middleware"
)

// RouterConfig holds the dependencies and options for building the router.
type RouterConfig struct {
	ProductService *service.ProductService
	CartService    *service.CartService
	OrderService   *service.OrderService
	PaymentService *service.PaymentService
	ReviewService  *service.ReviewService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("shop"))
	r.Use(middleware.Tracing("shop"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(Identity)

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)
	paymentHandler := NewPaymentHandler(cfg.PaymentService, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.ReviewService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{id}", productHandler.GetProduct)
			r.With(RequireAdmin).Post("/", productHandler.CreateProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(RequireAuth)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireAuth)

			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{id}", orderHandler.GetOrder)
			r.Put("/{id}/pay", orderHandler.PayOrder)
			r.With(RequireAdmin).Put("/{id}/deliver", orderHandler.MarkDelivered)
			r.With(RequireAdmin).Put("/{id}/status", orderHandler.SetStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(RequireAuth)

			r.Post("/", paymentHandler.CreatePayment)
			r.Get("/", paymentHandler.ListPayments)
			r.Get("/{id}", paymentHandler.GetPayment)
			r.With(RequireAdmin).Put("/{id}/refund", paymentHandler.RefundPayment)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.Get("/{id}", reviewHandler.GetReview)
			r.Put("/{id}/helpful", reviewHandler.MarkHelpful)
			r.With(RequireAuth).Post("/", reviewHandler.CreateReview)
			r.With(RequireAuth).Put("/{id}", reviewHandler.UpdateReview)
			r.With(RequireAuth).Delete("/{id}", reviewHandler.DeleteReview)
		})
	})

	return r
}
