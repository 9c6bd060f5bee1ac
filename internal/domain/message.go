package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHistoryLimit caps how many messages a conversation listing returns.
// Always the most recent ones, still delivered in ascending order.
const ChatHistoryLimit = 50

// Message is one chat entry between a trainer and an athlete. Append-only;
// there is no edit, delete, or read-receipt tracking.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Sender    Role               `bson:"sender" json:"sender"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
