package router

import (
	"net/http"
	"time"

	"resinstore/internal/handler"
	"resinstore/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
	Payment *handler.PaymentHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	APIKey         string
	AllowedOrigins []string

	// RateLimiter is nil when Redis is disabled.
	RateLimiter redis.Cmdable
	RateLimit   int
	RateWindow  time.Duration
	// TrustProxy keys the limit on X-Forwarded-For. Set it only behind a proxy that
	// appends the client address.
	TrustProxy bool
}

// New creates a new HTTP router with all routes and middleware configured.
// Storefront routes are public; admin routes require the API key.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.Product.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Product.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.Order.GetByID).Methods(http.MethodGet)

	// Writes are rate limited per client.
	writes := api.NewRoute().Subrouter()
	writes.Use(middleware.RateLimit(opts.RateLimiter, opts.RateLimit, opts.RateWindow, opts.TrustProxy, logger))
	writes.HandleFunc("/orders", h.Order.Create).Methods(http.MethodPost)
	writes.HandleFunc("/create-payment-intent", h.Payment.CreateIntent).Methods(http.MethodPost)

	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.APIKeyAuth(opts.APIKey, logger))
	admin.HandleFunc("/orders-all", h.Admin.ListOrders).Methods(http.MethodGet)
	admin.HandleFunc("/admin/update-order-status", h.Admin.UpdateStatus).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "NOT_FOUND", "message": "Route not found"}`))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error": "METHOD_NOT_ALLOWED", "message": "Method not allowed"}`))
	})

	// Outermost first: RequestID -> Recovery -> Logging -> CORS
	var handler http.Handler = r
	handler = middleware.CORS(opts.AllowedOrigins)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
