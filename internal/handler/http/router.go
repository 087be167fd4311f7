package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohamedrafeek-mr/FoodHub/internal/service"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/health"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/middleware"
)

// RouterConfig carries the HTTP-surface knobs the router needs.
type RouterConfig struct {
	CORS              middleware.CORSConfig
	PprofAllowedCIDRs []string
}

// Services bundles the service layer for route registration.
type Services struct {
	Menu        *service.MenuService
	Cart        *service.CartService
	Order       *service.OrderService
	Payment     *service.PaymentService
	Reservation *service.ReservationService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	services Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("foodhub"))
	r.Use(middleware.Tracing("foodhub"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	menuHandler := NewMenuHandler(services.Menu, logger)
	cartHandler := NewCartHandler(services.Cart, logger)
	orderHandler := NewOrderHandler(services.Order, logger)
	paymentHandler := NewPaymentHandler(services.Payment, logger)
	reservationHandler := NewReservationHandler(services.Reservation, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Identity())

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menuHandler.ListMenu)
			r.Get("/{id}", menuHandler.GetMenuItem)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{itemID}", cartHandler.UpdateItem)
			r.Delete("/items/{itemID}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{orderNumber}", orderHandler.GetOrder)
			r.Get("/{orderNumber}/status", orderHandler.GetOrderStatus)
			r.Get("/{orderNumber}/checkout", orderHandler.Checkout)
			r.Put("/{orderNumber}/status", orderHandler.UpdateOrderStatus)
			r.Post("/{orderNumber}/cancel", orderHandler.CancelOrder)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", paymentHandler.InitiatePayment)
			r.Post("/verify", paymentHandler.VerifyPayment)
			r.Get("/latest", paymentHandler.LatestPayment)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservationHandler.CreateReservation)
			r.Get("/", reservationHandler.ListReservations)
			r.Get("/{id}", reservationHandler.GetReservation)
			r.Put("/{id}/status", reservationHandler.UpdateReservationStatus)
		})
	})

	return r
}
