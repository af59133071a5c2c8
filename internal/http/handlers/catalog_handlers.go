package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/market-pulse/internal/catalog"
	"github.com/rogerio-castellano/market-pulse/internal/views"
)

// HomeHandler renders up to eight products, optionally only those priced
// below ?price_min.
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	params := catalog.ParseParams(r.URL.Query())

	products, err := h.catalog.Home(r.Context(), params.PriceMin)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.render(w, r, views.Home, catalog.Page{Products: products})
}

// CategoriesHandler renders a page of products for the comma-separated
// categories in the path.
func (h *Handler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories := pathCategories(chi.URLParam(r, "categories"))
	params := catalog.ParseParams(r.URL.Query())

	page, err := h.catalog.ByCategories(r.Context(), categories, params)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.render(w, r, views.Products, page)
}

// AllProductsHandler renders a page of the whole catalog with the category
// picker.
func (h *Handler) AllProductsHandler(w http.ResponseWriter, r *http.Request) {
	params := catalog.ParseParams(r.URL.Query())

	page, err := h.catalog.All(r.Context(), params)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}

	h.render(w, r, views.ProductsAll, page)
}

func (h *Handler) AboutHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.About, h.catalog.About())
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, HealthResponse{Status: "ok"}
	if err := h.health.Ping(r.Context()); err != nil {
		h.logger.WithError(err).Warn("catalog backend unreachable")
		status, body = http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"}
	}

	if err := writeJSON(w, status, body); err != nil {
		h.logger.WithError(err).Error("failed to write health response")
	}
}

// pathCategories decodes the raw path parameter before splitting it, so an
// escaped comma separates categories too.
func pathCategories(raw string) []string {
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return catalog.SplitList(raw)
}
