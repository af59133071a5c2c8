package handlers_test_suite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/rogerio-castellano/market-pulse/internal/catalog"
	api "github.com/rogerio-castellano/market-pulse/internal/http"
	handler "github.com/rogerio-castellano/market-pulse/internal/http/handlers"
	"github.com/rogerio-castellano/market-pulse/internal/logging"
	"github.com/rogerio-castellano/market-pulse/internal/models"
	"github.com/rogerio-castellano/market-pulse/internal/repo"
	"github.com/rogerio-castellano/market-pulse/internal/views"
)

var errBackendDown = errors.New("connection refused")

// recordingRenderer keeps the last view rendered instead of writing HTML.
type recordingRenderer struct {
	mu   sync.Mutex
	name string
	data any
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	r.mu.Lock()
	r.name, r.data = name, data
	r.mu.Unlock()

	w.WriteHeader(status)
	return nil
}

func (r *recordingRenderer) last() (string, any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name, r.data
}

type failingRepo struct{}

func (failingRepo) Find(ctx context.Context, pf repo.ProductFilter) ([]models.Product, error) {
	return nil, errBackendDown
}

func (failingRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	return nil, errBackendDown
}

func (failingRepo) Ping(ctx context.Context) error {
	return errBackendDown
}

func newHandler(products repo.ProductRepository, renderer views.Renderer) *handler.Handler {
	return handler.NewHandler(catalog.NewService(products), renderer, products, logging.Discard())
}

func setupRouter(products ...models.Product) (http.Handler, *recordingRenderer) {
	productRepo := repo.NewInMemoryProductRepository()
	for _, p := range products {
		productRepo.Create(p)
	}

	renderer := &recordingRenderer{}
	return api.NewRouter(newHandler(productRepo, renderer)), renderer
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func product(title, category string, price float64) models.Product {
	return models.Product{Title: title, Category: category, PriceMin: price, Image: "/img/" + title + ".webp"}
}

func titles(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}
