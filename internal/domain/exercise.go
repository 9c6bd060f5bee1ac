package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the library.
// The name doubles as the join key when an entry is picked into a daily
// session, so the library keeps names unique by convention (not enforced).
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	VideoURL  string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"` // Optional external reference video
	// VideoObjectKey points at a trainer-uploaded demo video in object
	// storage; download links are presigned on demand, never stored.
	VideoObjectKey string    `bson:"videoObjectKey,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
