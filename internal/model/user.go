package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a storefront user. Users materialize lazily on the first
// successful provider exchange for a previously unseen subject and are never
// deleted. The stored role is never escalated; the admin role is computed per
// request from the configured allow-list.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	OpenID    string        `bson:"openid"`
	Role      Role          `bson:"role"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
