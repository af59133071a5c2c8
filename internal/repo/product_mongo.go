package repo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rogerio-castellano/market-pulse/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

func (r *MongoProductRepository) Find(ctx context.Context, pf ProductFilter) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, mongoFilter(pf), mongoFindOptions(pf))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *MongoProductRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// mongoFilter translates pf into a find filter on the Products collection.
func mongoFilter(pf ProductFilter) bson.M {
	filter := bson.M{}

	if pf.Category != "" {
		filter["category"] = pf.Category
	}
	if len(pf.Categories) > 0 {
		filter["category"] = bson.M{"$in": pf.Categories}
	}
	if pf.ImageSuffix != "" {
		filter["image"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(pf.ImageSuffix) + "$"}}
	}
	if pf.TitleQuery != "" {
		filter["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(pf.TitleQuery), Options: "i"}}
	}

	price := bson.M{}
	if bounded(pf.MinPrice) {
		price["$gte"] = *pf.MinPrice
	}
	if bounded(pf.MaxPrice) {
		price["$lte"] = *pf.MaxPrice
	}
	if bounded(pf.PriceBelow) {
		price["$lt"] = *pf.PriceBelow
	}
	if len(price) > 0 {
		filter["price_min"] = price
	}

	return filter
}

func mongoFindOptions(pf ProductFilter) *options.FindOptions {
	opts := options.Find()
	if pf.SortByPrice {
		opts.SetSort(bson.D{{Key: "price_min", Value: 1}})
	}
	if pf.Limit != nil && *pf.Limit >= 0 {
		opts.SetLimit(int64(*pf.Limit))
	}
	return opts
}
