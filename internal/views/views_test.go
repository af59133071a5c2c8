package views

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rogerio-castellano/market-pulse/internal/catalog"
	"github.com/rogerio-castellano/market-pulse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	return r
}

func TestTemplateRenderer_About(t *testing.T) {
	w := httptest.NewRecorder()

	err := newRenderer(t).Render(w, http.StatusOK, About, catalog.About{Title: catalog.AboutTitle})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<h1>A propos de nous</h1>")
}

func TestTemplateRenderer_Products(t *testing.T) {
	w := httptest.NewRecorder()
	page := catalog.Page{
		Products: []models.Product{
			{Title: "Trail <Runner>", Category: "shoes", PriceMin: 42.5, Image: "/img/trail.webp"},
		},
		CurrentPage: 2,
		TotalPages:  3,
		Category:    "shoes,bags",
	}

	err := newRenderer(t).Render(w, http.StatusOK, Products, page)

	require.NoError(t, err)
	body := w.Body.String()
	assert.Contains(t, body, "Trail &lt;Runner&gt;")
	assert.Contains(t, body, "42.50")
	assert.Contains(t, body, `class="current">2</a>`)
	assert.Contains(t, body, "/shoes,bags?page=3")
}

func TestTemplateRenderer_PageLinksKeepFilters(t *testing.T) {
	t.Run("category page", func(t *testing.T) {
		w := httptest.NewRecorder()
		page := catalog.Page{
			CurrentPage: 1,
			TotalPages:  3,
			Category:    "shoes",
			Filters:     url.Values{"price_min": {"10"}, "price_max": {"90"}, "query": {"p"}},
		}

		require.NoError(t, newRenderer(t).Render(w, http.StatusOK, Products, page))

		body := w.Body.String()
		assert.Contains(t, body, `href="/shoes?page=2&amp;price_max=90&amp;price_min=10&amp;query=p"`)
		assert.Contains(t, body, `name="query" placeholder="Rechercher" value="p"`)
		assert.Contains(t, body, `name="price_min" placeholder="Prix min" value="10"`)
		assert.Contains(t, body, `name="price_max" placeholder="Prix max" value="90"`)
	})

	t.Run("all products page", func(t *testing.T) {
		w := httptest.NewRecorder()
		page := catalog.Page{
			CurrentPage:        1,
			TotalPages:         2,
			Categories:         []string{"shoes", "bags"},
			SelectedCategories: []string{"shoes"},
			Filters:            url.Values{"price_max": {"90"}, "query": {"p"}, "categories": {"shoes"}},
		}

		require.NoError(t, newRenderer(t).Render(w, http.StatusOK, ProductsAll, page))

		body := w.Body.String()
		assert.Contains(t, body, `href="/MarketPulse/products?categories=shoes&amp;page=2&amp;price_max=90&amp;query=p"`)
		assert.Contains(t, body, `name="price_max" placeholder="Prix max" value="90"`)
	})
}

func TestTemplateRenderer_ProductsAllChecksSelected(t *testing.T) {
	w := httptest.NewRecorder()
	page := catalog.Page{
		CurrentPage:        1,
		Categories:         []string{"shoes", "bags"},
		SelectedCategories: []string{"bags"},
	}

	err := newRenderer(t).Render(w, http.StatusOK, ProductsAll, page)

	require.NoError(t, err)
	body := w.Body.String()
	assert.Contains(t, body, `value="bags" checked`)
	assert.NotContains(t, body, `value="shoes" checked`)
	assert.Contains(t, body, "Aucun produit.")
}

func TestTemplateRenderer_UnknownView(t *testing.T) {
	w := httptest.NewRecorder()

	err := newRenderer(t).Render(w, http.StatusOK, "checkout", nil)

	assert.Error(t, err)
	assert.Equal(t, 0, w.Body.Len())
}

func TestStatic_ServesStylesheet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
	w := httptest.NewRecorder()

	Static().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".grid")
}
