package catalog

import (
	"net/url"

	"github.com/rogerio-castellano/market-pulse/internal/models"
)

// Page is one window of a listing plus what the views need around it.
type Page struct {
	Products           []models.Product
	CurrentPage        int
	TotalPages         int
	Category           string
	Categories         []string
	SelectedCategories []string
	Filters            url.Values
}

// About is the data behind the static about page.
type About struct {
	Title string
}

func totalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}

// paginate returns the products of the given 1-based page. Pages past the
// end are empty.
func paginate(products []models.Product, page int) []models.Product {
	start := min((page-1)*PageSize, len(products))
	end := min(page*PageSize, len(products))
	return products[start:end]
}
