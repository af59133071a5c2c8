package catalog

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams_Defaults(t *testing.T) {
	p := ParseParams(url.Values{})

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0.0, p.PriceMin)
	assert.True(t, math.IsInf(p.PriceMax, 1))
	assert.False(t, p.PriceFilter)
	assert.Empty(t, p.Query)
	assert.Empty(t, p.Categories)
}

func TestParseParams_Coercion(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		page        int
		priceMin    float64
		priceMax    float64
		priceFilter bool
	}{
		{name: "valid values", query: "page=3&price_min=10.5&price_max=99", page: 3, priceMin: 10.5, priceMax: 99, priceFilter: true},
		{name: "zero page clamps to one", query: "page=0", page: 1, priceMin: 0, priceMax: math.Inf(1)},
		{name: "negative page clamps to one", query: "page=-4", page: 1, priceMin: 0, priceMax: math.Inf(1)},
		{name: "garbage page", query: "page=abc", page: 1, priceMin: 0, priceMax: math.Inf(1)},
		{name: "garbage prices still flag a price filter", query: "price_min=cheap&price_max=dear", page: 1, priceMin: 0, priceMax: math.Inf(1), priceFilter: true},
		{name: "zero max means unbounded", query: "price_max=0", page: 1, priceMin: 0, priceMax: math.Inf(1), priceFilter: true},
		{name: "empty price param flags a price filter", query: "price_min=", page: 1, priceMin: 0, priceMax: math.Inf(1), priceFilter: true},
		{name: "numeric prefix", query: "page=2.5&price_min=10abc&price_max=99.9eur", page: 2, priceMin: 10, priceMax: 99.9, priceFilter: true},
		{name: "leading whitespace and sign", query: "page=+3&price_min=%20.5", page: 3, priceMin: 0.5, priceMax: math.Inf(1), priceFilter: true},
		{name: "exponent", query: "price_max=1e3x", page: 1, priceMin: 0, priceMax: 1000, priceFilter: true},
		{name: "page without digits", query: "page=.5", page: 1, priceMin: 0, priceMax: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParseParams(q)

			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.priceMin, p.PriceMin)
			assert.Equal(t, tt.priceMax, p.PriceMax)
			assert.Equal(t, tt.priceFilter, p.PriceFilter)
		})
	}
}

func TestParseParams_QueryAndCategories(t *testing.T) {
	q, _ := url.ParseQuery("query=Nike&categories=shoes,bags")

	p := ParseParams(q)

	assert.Equal(t, "Nike", p.Query)
	assert.Equal(t, []string{"shoes", "bags"}, p.Categories)
}

func TestParseParams_Filters(t *testing.T) {
	q, _ := url.ParseQuery("page=2&price_min=&query=Nike&categories=shoes&utm=x")

	p := ParseParams(q)

	assert.Equal(t, url.Values{
		"price_min":  {""},
		"query":      {"Nike"},
		"categories": {"shoes"},
	}, p.Filters)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{"shoes"}, SplitList("shoes"))
	assert.Equal(t, []string{"shoes", "", "bags"}, SplitList("shoes,,bags"))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0))
	assert.Equal(t, 1, totalPages(1))
	assert.Equal(t, 1, totalPages(20))
	assert.Equal(t, 2, totalPages(21))
}
