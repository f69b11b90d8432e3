package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single customer review embedded in a product document.
type Review struct {
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Specification is a free-form key/value attribute on a product.
type Specification struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

type Product struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description" json:"description"`
	Price          float64             `bson:"price" json:"price"`
	OriginalPrice  float64             `bson:"originalPrice" json:"originalPrice"`
	Discount       int                 `bson:"-" json:"discount"`
	CategoryID     primitive.ObjectID  `bson:"category" json:"category"`
	Images         []string            `bson:"images" json:"images"`
	Stock          int                 `bson:"stock" json:"stock"`
	InStock        bool                `bson:"-" json:"inStock"`
	Rating         float64             `bson:"rating" json:"rating"`
	NumReviews     int                 `bson:"numReviews" json:"numReviews"`
	Reviews        []Review            `bson:"reviews" json:"reviews"`
	Specifications []Specification     `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Brand          string              `bson:"brand,omitempty" json:"brand,omitempty"`
	SellerID       *primitive.ObjectID `bson:"seller,omitempty" json:"seller,omitempty"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	IsFeatured     bool                `bson:"isFeatured" json:"isFeatured"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
