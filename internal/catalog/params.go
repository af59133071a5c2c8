package catalog

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Query parameter names.
const (
	QueryParamPage       = "page"
	QueryParamPriceMin   = "price_min"
	QueryParamPriceMax   = "price_max"
	QueryParamQuery      = "query"
	QueryParamCategories = "categories"
)

const (
	PageSize    = 20
	HomeLimit   = 8
	ImageSuffix = ".webp"
	AboutTitle  = "A propos de nous"
)

// Params are the typed listing parameters of a request. Numbers are read from
// their leading numeric prefix ("10abc" is 10, page "2.5" is 2). Absent or
// unparsable values take their defaults:
//
//	page       1 (also for values below 1)
//	price_min  0 (also when it parses to 0)
//	price_max  +Inf (also when it parses to 0)
//	query      "" (no title constraint)
//	categories none
type Params struct {
	Page        int
	PriceMin    float64
	PriceMax    float64
	PriceFilter bool
	Query       string
	Categories  []string
	// Filters holds the raw filter parameters present in the request, so
	// page links can carry them.
	Filters url.Values
}

var filterParams = []string{QueryParamPriceMin, QueryParamPriceMax, QueryParamQuery, QueryParamCategories}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
)

// ParseParams reads listing parameters from a query string. It never fails.
func ParseParams(q url.Values) Params {
	return Params{
		Page:        parsePage(q.Get(QueryParamPage)),
		PriceMin:    parseFloatOr(q.Get(QueryParamPriceMin), 0),
		PriceMax:    parseFloatOr(q.Get(QueryParamPriceMax), math.Inf(1)),
		PriceFilter: q.Has(QueryParamPriceMin) || q.Has(QueryParamPriceMax),
		Query:       q.Get(QueryParamQuery),
		Categories:  SplitList(q.Get(QueryParamCategories)),
		Filters:     filterValues(q),
	}
}

func filterValues(q url.Values) url.Values {
	filters := url.Values{}
	for _, key := range filterParams {
		if q.Has(key) {
			filters.Set(key, q.Get(key))
		}
	}
	return filters
}

// SplitList splits a comma-separated list. An empty input yields no items;
// empty segments inside a non-empty input are kept.
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func parsePage(s string) int {
	page, err := strconv.Atoi(intPrefix.FindString(strings.TrimSpace(s)))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseFloatOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(floatPrefix.FindString(strings.TrimSpace(s)), 64)
	if err != nil || v == 0 || math.IsNaN(v) {
		return def
	}
	return v
}
