package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Item represents a storefront item belonging to a category. ImageURLs holds
// the stored paths of the images staged at creation time.
type Item struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Name       string        `bson:"name"`
	CategoryID string        `bson:"category_id"`
	ImageURLs  []string      `bson:"image_urls"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}
