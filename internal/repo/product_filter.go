package repo

import "math"

// ProductFilter describes which catalog documents a query should match.
// Zero values mean "no constraint".
type ProductFilter struct {
	Category    string
	Categories  []string
	ImageSuffix string
	TitleQuery  string
	MinPrice    *float64
	MaxPrice    *float64
	PriceBelow  *float64
	SortByPrice bool
	Limit       *int
}

// bounded reports whether p holds a finite bound worth sending to a backend.
func bounded(p *float64) bool {
	return p != nil && !math.IsInf(*p, 0) && !math.IsNaN(*p)
}
