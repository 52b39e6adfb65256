package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category represents a storefront category.
type Category struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	ImageURLs []string      `bson:"image_urls"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
