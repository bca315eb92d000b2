package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewRouter wires the API routes, health and metrics endpoints behind the
// common middleware stack.
func NewRouter(h *Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodyMiddleware(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Post("/load", h.LoadSession)
		})
		r.Route("/view", func(r chi.Router) {
			r.Post("/add-form", h.OpenAddForm)
			r.Post("/cancel-form", h.CancelAddForm)
			r.Post("/checkout", h.ProceedToCheckout)
			r.Post("/back", h.BackToCart)
			r.Post("/continue", h.ContinueShopping)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Post("/open", h.OpenCart)
			r.Post("/close", h.CloseCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productId}", h.UpdateQuantity)
			r.Delete("/items/{productId}", h.RemoveItem)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Post("/generate", h.GenerateDetails)
		})
		r.Post("/orders", h.PlaceOrder)
		r.Post("/share", h.Share)
	})

	return otelhttp.NewHandler(r, "decohome")
}
