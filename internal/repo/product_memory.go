package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/market-pulse/internal/models"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

// LoadFile seeds the repository from a JSON array of products.
func (r *InMemoryProductRepository) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to decode seed file: %w", err)
	}

	for _, p := range products {
		r.Create(p)
	}
	return nil
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Category != "" && p.Category != pf.Category {
		return false
	}
	if len(pf.Categories) > 0 && !lo.Contains(pf.Categories, p.Category) {
		return false
	}
	if pf.ImageSuffix != "" && !strings.HasSuffix(p.Image, pf.ImageSuffix) {
		return false
	}
	if pf.TitleQuery != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(pf.TitleQuery)) {
		return false
	}
	if pf.MinPrice != nil && p.PriceMin < *pf.MinPrice {
		return false
	}
	if pf.MaxPrice != nil && p.PriceMin > *pf.MaxPrice {
		return false
	}
	if pf.PriceBelow != nil && p.PriceMin >= *pf.PriceBelow {
		return false
	}
	return true
}

// Find returns the products matching pf in insertion order, or by ascending
// price when pf.SortByPrice is set.
func (r *InMemoryProductRepository) Find(ctx context.Context, pf ProductFilter) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}

	if pf.SortByPrice {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].PriceMin < filtered[j].PriceMin
		})
	}

	if pf.Limit != nil && *pf.Limit >= 0 {
		filtered = filtered[:clamp(*pf.Limit, 0, len(filtered))]
	}

	return filtered, nil
}

// DistinctCategories returns every category present, in first-seen order.
func (r *InMemoryProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range r.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (r *InMemoryProductRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Create adds a new product to the repository, assigning an ID when missing.
func (r *InMemoryProductRepository) Create(product models.Product) models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products = append(r.products, product)
	return product
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = []models.Product{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
