package repo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFindQuery_NoFilter(t *testing.T) {
	query, args := findQuery(ProductFilter{})

	assert.Equal(t, "SELECT id, title, category, price_min, price_max, image, link FROM products WHERE 1=1 ORDER BY id", query)
	assert.Empty(t, args)
}

func TestFindQuery_CategoryListing(t *testing.T) {
	query, args := findQuery(ProductFilter{
		Category:    "shoes",
		ImageSuffix: ".webp",
		TitleQuery:  "air max",
		MinPrice:    ptr(0.0),
		MaxPrice:    ptr(math.Inf(1)),
		SortByPrice: true,
	})

	assert.Equal(t, "SELECT id, title, category, price_min, price_max, image, link FROM products WHERE 1=1"+
		" AND category = $1 AND image LIKE $2 AND title ~* $3 AND price_min >= $4"+
		" ORDER BY price_min ASC, id", query)
	assert.Equal(t, []any{"shoes", "%.webp", "air max", 0.0}, args)
}

func TestFindQuery_CategorySetBelowAndLimit(t *testing.T) {
	query, args := findQuery(ProductFilter{
		Categories: []string{"shoes", "bags"},
		PriceBelow: ptr(20.0),
		Limit:      ptr(8),
	})

	assert.Equal(t, "SELECT id, title, category, price_min, price_max, image, link FROM products WHERE 1=1"+
		" AND category = ANY($1) AND price_min < $2 ORDER BY id LIMIT $3", query)
	assert.Equal(t, []any{[]string{"shoes", "bags"}, 20.0, 8}, args)
}

func TestFilterConditions_EscapesPatterns(t *testing.T) {
	_, args, next := filterConditions(ProductFilter{ImageSuffix: "_50%.webp", TitleQuery: "a.b"})

	assert.Equal(t, []any{`%\_50\%.webp`, `a\.b`}, args)
	assert.Equal(t, 3, next)
}

func TestParseProductID(t *testing.T) {
	oid, err := parseProductID("65f1c2a9e4b0a1b2c3d4e5f6")
	require.NoError(t, err)
	assert.Equal(t, "65f1c2a9e4b0a1b2c3d4e5f6", oid.Hex())

	padded, err := parseProductID("65f1c2a9e4b0a1b2c3d4e5f6  ")
	require.NoError(t, err)
	assert.Equal(t, oid, padded)

	for _, id := range []string{"42", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", ""} {
		got, err := parseProductID(id)
		assert.Error(t, err, id)
		assert.Equal(t, primitive.NilObjectID, got)
	}
}
