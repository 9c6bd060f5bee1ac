package mongo

import (
	"context"
	"errors"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const athleteCollectionName = "athletes"

// mongoAthleteRepository implements repository.AthleteRepository
type mongoAthleteRepository struct {
	collection *mongo.Collection
}

// NewMongoAthleteRepository creates a new roster repository backed by MongoDB.
func NewMongoAthleteRepository(db *mongo.Database) repository.AthleteRepository {
	return &mongoAthleteRepository{
		collection: db.Collection(athleteCollectionName),
	}
}

// Create inserts a new athlete profile.
func (r *mongoAthleteRepository) Create(ctx context.Context, athlete *domain.Athlete) (primitive.ObjectID, error) {
	if athlete.Name == "" || athlete.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("athlete name and trainer ID are required")
	}

	athlete.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	athlete.CreatedAt = now
	athlete.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, athlete)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a profile by its ID.
func (r *mongoAthleteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Athlete, error) {
	var athlete domain.Athlete
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&athlete)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

// List retrieves the whole roster, newest first.
func (r *mongoAthleteRepository) List(ctx context.Context) ([]domain.Athlete, error) {
	var athletes []domain.Athlete

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &athletes); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return athletes, nil
}

// GetByStudentUserID finds the profile linked to a login account, if any.
// This is the reverse reference behind role resolution.
func (r *mongoAthleteRepository) GetByStudentUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Athlete, error) {
	var athlete domain.Athlete
	filter := bson.M{"studentUserId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&athlete)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

// LinkStudentUser sets the linked login on an unlinked profile. The filter
// requires the studentUserId field to be absent, so the first link wins and
// a second attempt reports ErrAlreadyLinked.
func (r *mongoAthleteRepository) LinkStudentUser(ctx context.Context, athleteID, userID primitive.ObjectID, email string) error {
	filter := bson.M{
		"_id":           athleteID,
		"studentUserId": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"studentUserId": userID,
			"email":         email,
			"updatedAt":     time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		// Distinguish "profile missing" from "profile already linked".
		if _, getErr := r.GetByID(ctx, athleteID); getErr != nil {
			return getErr
		}
		return repository.ErrAlreadyLinked
	}

	return nil
}

// UpdatePlanAndStatus edits the trainer-managed lifecycle fields.
func (r *mongoAthleteRepository) UpdatePlanAndStatus(ctx context.Context, athleteID primitive.ObjectID, plan string, status domain.AthleteStatus) error {
	filter := bson.M{"_id": athleteID}
	update := bson.M{
		"$set": bson.M{
			"plan":      plan,
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendRoutineNote pushes a free-form entry onto the routine history list.
func (r *mongoAthleteRepository) AppendRoutineNote(ctx context.Context, athleteID primitive.ObjectID, note string) error {
	filter := bson.M{"_id": athleteID}
	update := bson.M{
		"$push": bson.M{"routine": note},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAthleteIndexes creates necessary indexes for the athletes collection.
func EnsureAthleteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Reverse-reference lookup for role resolution. Unique so at most
			// one profile may carry a given linked login; sparse because most
			// profiles start unlinked.
			Keys:    bson.D{{Key: "studentUserId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
