package mongo

import (
	"context"
	"log"
	"ragnar/training-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoChangeFeed implements repository.ChangeFeed on top of MongoDB change
// streams. One stream is opened per subscription and torn down with the
// caller's context, so a feed is always a scoped resource, never a global.
type mongoChangeFeed struct {
	db *mongo.Database
}

// NewMongoChangeFeed creates a change feed over the given database.
func NewMongoChangeFeed(db *mongo.Database) repository.ChangeFeed {
	return &mongoChangeFeed{db: db}
}

func (f *mongoChangeFeed) WatchRoster(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	return f.watch(ctx, athleteCollectionName, nil)
}

func (f *mongoChangeFeed) WatchExercises(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	return f.watch(ctx, exerciseCollectionName, nil)
}

func (f *mongoChangeFeed) WatchSessions(ctx context.Context, athleteID primitive.ObjectID) (<-chan repository.ChangeEvent, error) {
	return f.watch(ctx, sessionCollectionName, athleteMatchStage(athleteID))
}

func (f *mongoChangeFeed) WatchMessages(ctx context.Context, athleteID primitive.ObjectID) (<-chan repository.ChangeEvent, error) {
	return f.watch(ctx, messageCollectionName, athleteMatchStage(athleteID))
}

// athleteMatchStage filters a stream down to one athlete's documents. Delete
// events carry no full document, so they are let through for every athlete;
// subscribers re-read their own state on notification anyway.
func athleteMatchStage(athleteID primitive.ObjectID) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"$or": bson.A{
			bson.M{"fullDocument.athleteId": athleteID},
			bson.M{"operationType": "delete"},
		},
	}}}
}

// changeDocument is the slice of a change stream event we forward.
type changeDocument struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
	ClusterTime primitive.Timestamp `bson:"clusterTime"`
}

func (f *mongoChangeFeed) watch(ctx context.Context, collectionName string, match bson.D) (<-chan repository.ChangeEvent, error) {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, match)
	}

	// UpdateLookup attaches the post-image so the athlete filter can match
	// update events, not just inserts.
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := f.db.Collection(collectionName).Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}

	events := make(chan repository.ChangeEvent)

	go func() {
		defer close(events)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := stream.Close(closeCtx); err != nil {
				log.Printf("WARN: Failed to close change stream on %s: %v", collectionName, err)
			}
		}()

		for stream.Next(ctx) {
			var doc changeDocument
			if err := stream.Decode(&doc); err != nil {
				log.Printf("WARN: Failed to decode change event on %s: %v", collectionName, err)
				continue
			}

			event := repository.ChangeEvent{
				Collection: collectionName,
				Operation:  doc.OperationType,
				DocumentID: doc.DocumentKey.ID.Hex(),
				At:         time.Unix(int64(doc.ClusterTime.T), 0).UTC(),
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("ERROR: Change stream on %s ended: %v", collectionName, err)
		}
	}()

	return events, nil
}
