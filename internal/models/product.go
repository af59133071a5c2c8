package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product represents a catalog entry as stored in the Products collection.
// The price field is stored as price_min; price_max is an optional upper bound
// some listings carry.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	PriceMin    float64            `json:"price_min" bson:"price_min"`
	PriceMax    float64            `json:"price_max,omitempty" bson:"price_max,omitempty"`
	Image       string             `json:"image" bson:"image"`
	Link        string             `json:"link,omitempty" bson:"link,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}
