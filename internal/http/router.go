package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/market-pulse/internal/http/handlers"
	"github.com/rogerio-castellano/market-pulse/internal/views"
)

// NewRouter mounts the catalog routes. Extra middlewares (rate limiting)
// run after request id, logging and panic recovery.
func NewRouter(h *handlers.Handler, extra ...func(http.Handler) http.Handler) http.Handler {
	logger := h.Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))

	r.Get("/healthz", h.HealthHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	r.Group(func(r chi.Router) {
		r.Use(extra...)

		r.Get("/", h.HomeHandler)
		r.Get("/MarketPulse/products", h.AllProductsHandler)
		r.Get("/MarketPulse/about", h.AboutHandler)
		r.Get("/{categories}", h.CategoriesHandler)
	})

	return r
}
