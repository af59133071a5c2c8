package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rogerio-castellano/market-pulse/internal/apperr"
	"github.com/rogerio-castellano/market-pulse/internal/models"
	"github.com/rogerio-castellano/market-pulse/internal/repo"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	defaultQueryTimeout = 5 * time.Second
	defaultMaxParallel  = 8
)

// Service answers catalog listing queries against a product repository.
type Service struct {
	repo         repo.ProductRepository
	queryTimeout time.Duration
	maxParallel  int
}

type Option func(*Service)

// WithQueryTimeout bounds every operation, including all fan-out queries.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithMaxParallel caps how many per-category queries run at once.
func WithMaxParallel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

func NewService(r repo.ProductRepository, opts ...Option) *Service {
	s := &Service{
		repo:         r,
		queryTimeout: defaultQueryTimeout,
		maxParallel:  defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Home returns up to HomeLimit products, restricted to price_min below
// priceMin when priceMin is positive.
func (s *Service) Home(ctx context.Context, priceMin float64) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	limit := HomeLimit
	pf := repo.ProductFilter{Limit: &limit}
	if priceMin > 0 {
		pf.PriceBelow = &priceMin
	}

	products, err := s.repo.Find(ctx, pf)
	if err != nil {
		return nil, apperr.CatalogUnavailable(err)
	}
	return products, nil
}

// ByCategories lists displayable products of each category, queried
// concurrently and concatenated in request order. A price parameter in p
// switches the result to ascending price order.
func (s *Service) ByCategories(ctx context.Context, categories []string, p Params) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	page := normalizePage(p.Page)
	results := make([][]models.Product, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, category := range categories {
		pf := s.baseFilter(p)
		pf.Category = category
		g.Go(func() error {
			products, err := s.repo.Find(gctx, pf)
			if err != nil {
				return err
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Page{}, apperr.CatalogUnavailable(err)
	}

	products := lo.Flatten(results)
	if p.PriceFilter {
		sortByPrice(products)
	}

	return Page{
		Products:    paginate(products, page),
		CurrentPage: page,
		TotalPages:  totalPages(len(products)),
		Category:    strings.Join(categories, ","),
		Filters:     p.Filters,
	}, nil
}

// All lists displayable products across the whole catalog, optionally
// restricted to p.Categories, together with every known category.
func (s *Service) All(ctx context.Context, p Params) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	page := normalizePage(p.Page)

	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return Page{}, apperr.CatalogUnavailable(err)
	}

	pf := s.baseFilter(p)
	pf.SortByPrice = p.PriceFilter
	if len(p.Categories) > 0 {
		pf.Categories = p.Categories
	}

	products, err := s.repo.Find(ctx, pf)
	if err != nil {
		return Page{}, apperr.CatalogUnavailable(err)
	}

	if len(p.Categories) > 0 {
		products = lo.Filter(products, func(product models.Product, _ int) bool {
			return lo.Contains(p.Categories, product.Category)
		})
		sortByPrice(products)
	}

	return Page{
		Products:           paginate(products, page),
		CurrentPage:        page,
		TotalPages:         totalPages(len(products)),
		Categories:         categories,
		SelectedCategories: p.Categories,
		Filters:            p.Filters,
	}, nil
}

func (s *Service) About() About {
	return About{Title: AboutTitle}
}

func (s *Service) baseFilter(p Params) repo.ProductFilter {
	priceMin, priceMax := p.PriceMin, p.PriceMax
	return repo.ProductFilter{
		ImageSuffix: ImageSuffix,
		TitleQuery:  p.Query,
		MinPrice:    &priceMin,
		MaxPrice:    &priceMax,
	}
}

func sortByPrice(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].PriceMin < products[j].PriceMin
	})
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
