package mongo

import (
	"context"
	"errors"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository.
//
// Every mutation is a field-level atomic operation against the unique
// (athleteId, date) document. The trainer paths ($push / $pull) and the
// student path (one entry's actualSets) never overwrite each other's fields,
// which is what closes the lost-update hazard a whole-list overwrite would
// have between the two writers.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new session ledger repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Get retrieves the session for one athlete and calendar day.
// "No session" surfaces as repository.ErrNotFound, a distinct non-failure outcome.
func (r *mongoSessionRepository) Get(ctx context.Context, athleteID primitive.ObjectID, date string) (*domain.Session, error) {
	var session domain.Session
	filter := bson.M{"athleteId": athleteID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// AppendExercise pushes one planned entry onto the day's list, upserting the
// day document on first assignment. The upsert copies the equality filter
// fields into the new document, so the date field is always present.
func (r *mongoSessionRepository) AppendExercise(ctx context.Context, athleteID primitive.ObjectID, date string, entry domain.PlannedExercise) error {
	filter := bson.M{"athleteId": athleteID, "date": date}
	update := bson.M{
		"$push": bson.M{"exercises": entry},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// RemoveExercise pulls the entry with the given token out of the day's list.
// If the list became empty the day document is deleted rather than persisted
// as an empty list; the $size filter makes that delete a no-op when another
// writer appended concurrently.
func (r *mongoSessionRepository) RemoveExercise(ctx context.Context, athleteID primitive.ObjectID, date string, entryID string) error {
	filter := bson.M{"athleteId": athleteID, "date": date}
	update := bson.M{
		"$pull": bson.M{"exercises": bson.M{"entryId": entryID}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		// Day exists but no entry carried that token.
		return repository.ErrNotFound
	}

	emptyFilter := bson.M{
		"athleteId": athleteID,
		"date":      date,
		"exercises": bson.M{"$size": 0},
	}
	_, err = r.collection.DeleteOne(ctx, emptyFilter)
	return err
}

// UpdateActualSet merges the non-nil fields of update into one actual-set
// slot of one entry. The write replaces only that entry's actualSets array
// (selected by arrayFilters on the entry token), leaving list membership and
// every target field untouched. Skipped indices are filled with nulls so the
// array stays index-addressable.
func (r *mongoSessionRepository) UpdateActualSet(ctx context.Context, athleteID primitive.ObjectID, date string, entryID string, setIndex int, update domain.SetUpdate) error {
	if setIndex < 0 {
		return errors.New("set index cannot be negative")
	}

	session, err := r.Get(ctx, athleteID, date)
	if err != nil {
		return err
	}

	var sets []*domain.ActualSet
	found := false
	for i := range session.Exercises {
		if session.Exercises[i].EntryID == entryID {
			sets = session.Exercises[i].ActualSets
			found = true
			break
		}
	}
	if !found {
		return repository.ErrNotFound
	}

	for len(sets) <= setIndex {
		sets = append(sets, nil)
	}
	if sets[setIndex] == nil {
		sets[setIndex] = &domain.ActualSet{}
	}
	if update.Reps != nil {
		sets[setIndex].Reps = *update.Reps
	}
	if update.Weight != nil {
		sets[setIndex].Weight = *update.Weight
	}
	if update.Completed != nil {
		sets[setIndex].Completed = *update.Completed
	}

	filter := bson.M{"athleteId": athleteID, "date": date}
	setOp := bson.M{
		"$set": bson.M{"exercises.$[e].actualSets": sets},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"e.entryId": entryID}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, setOp, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// The day document vanished between the read and the write.
		return repository.ErrNotFound
	}

	return nil
}

// ListDates returns the date keys that have a session document for the
// athlete, ascending. Used to mark the navigation calendar.
func (r *mongoSessionRepository) ListDates(ctx context.Context, athleteID primitive.ObjectID) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "date", bson.M{"athleteId": athleteID})
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One document per athlete per calendar day.
			Keys: bson.D{
				{Key: "athleteId", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
