package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/market-pulse/internal/models"
)

// ProductRepository defines the read operations the catalog needs.
type ProductRepository interface {
	Find(ctx context.Context, pf ProductFilter) ([]models.Product, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// ErrUnsupportedDriver is returned when no repository exists for a configured driver.
var ErrUnsupportedDriver = errors.New("unsupported catalog driver")
