package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is one scheduled slot on the trainer's agenda. It references
// the athlete by display name only; the agenda predates profile linking and
// stays a flat list.
type Appointment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientName string             `bson:"clientName" json:"clientName"`
	Date       string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time       string             `bson:"time" json:"time"` // HH:MM
	Activity   string             `bson:"activity" json:"activity"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
