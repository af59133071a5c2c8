package repo

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/rogerio-castellano/market-pulse/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostgresProductRepository reads the products table. Its id column holds
// the 24-character hex form of the product ObjectID, so ids stay the same
// across backends.
type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Find(ctx context.Context, pf ProductFilter) ([]models.Product, error) {
	query, args := findQuery(pf)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var (
			p        models.Product
			id       string
			priceMax sql.NullFloat64
			link     sql.NullString
		)
		if err := rows.Scan(&id, &p.Title, &p.Category, &p.PriceMin, &priceMax, &p.Image, &link); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		oid, err := parseProductID(id)
		if err != nil {
			return nil, err
		}
		p.ID = oid
		p.PriceMax = priceMax.Float64
		p.Link = link.String
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("product id %q is not a hex ObjectID: %w", id, err)
	}
	return oid, nil
}

func (r *PostgresProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func findQuery(pf ProductFilter) (string, []any) {
	conditions, args, argIdx := filterConditions(pf)

	query := `SELECT id, title, category, price_min, price_max, image, link FROM products WHERE 1=1`
	query += conditions

	if pf.SortByPrice {
		query += " ORDER BY price_min ASC, id"
	} else {
		query += " ORDER BY id"
	}

	if pf.Limit != nil && *pf.Limit >= 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
	}

	return query, args
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	var query strings.Builder
	argIdx := 1
	args := []any{}

	if pf.Category != "" {
		fmt.Fprintf(&query, " AND category = $%d", argIdx)
		args = append(args, pf.Category)
		argIdx++
	}
	if len(pf.Categories) > 0 {
		fmt.Fprintf(&query, " AND category = ANY($%d)", argIdx)
		args = append(args, pf.Categories)
		argIdx++
	}
	if pf.ImageSuffix != "" {
		fmt.Fprintf(&query, " AND image LIKE $%d", argIdx)
		args = append(args, "%"+likeEscape(pf.ImageSuffix))
		argIdx++
	}
	if pf.TitleQuery != "" {
		fmt.Fprintf(&query, " AND title ~* $%d", argIdx)
		args = append(args, regexp.QuoteMeta(pf.TitleQuery))
		argIdx++
	}
	if bounded(pf.MinPrice) {
		fmt.Fprintf(&query, " AND price_min >= $%d", argIdx)
		args = append(args, *pf.MinPrice)
		argIdx++
	}
	if bounded(pf.MaxPrice) {
		fmt.Fprintf(&query, " AND price_min <= $%d", argIdx)
		args = append(args, *pf.MaxPrice)
		argIdx++
	}
	if bounded(pf.PriceBelow) {
		fmt.Fprintf(&query, " AND price_min < $%d", argIdx)
		args = append(args, *pf.PriceBelow)
		argIdx++
	}

	return query.String(), args, argIdx
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeEscape(s string) string {
	return likeReplacer.Replace(s)
}
