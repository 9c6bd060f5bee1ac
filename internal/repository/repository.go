package repository

import (
	"ragnar/training-app/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicate     = RepositoryError("duplicate")
	ErrAlreadyLinked = RepositoryError("profile already linked to a login")
	ErrUpdateFailed  = RepositoryError("update failed")
	ErrDeleteFailed  = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with login accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// AthleteRepository defines the interface for interacting with roster profiles.
type AthleteRepository interface {
	Create(ctx context.Context, athlete *domain.Athlete) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Athlete, error)
	List(ctx context.Context) ([]domain.Athlete, error)
	// GetByStudentUserID is the reverse-reference lookup behind role
	// resolution: it finds the profile linked to a login account, if any.
	GetByStudentUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Athlete, error)
	// LinkStudentUser sets the linked login once. A profile that already
	// carries a link is left untouched and ErrAlreadyLinked is returned.
	LinkStudentUser(ctx context.Context, athleteID, userID primitive.ObjectID, email string) error
	UpdatePlanAndStatus(ctx context.Context, athleteID primitive.ObjectID, plan string, status domain.AthleteStatus) error
	AppendRoutineNote(ctx context.Context, athleteID primitive.ObjectID, note string) error
}

// ExerciseRepository defines the interface for interacting with the library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error) // Ordered by name ascending
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository defines the interface for the daily session ledger.
// All mutations are field-level atomic operations on the (athleteId, date)
// document; there is no whole-list overwrite path.
type SessionRepository interface {
	Get(ctx context.Context, athleteID primitive.ObjectID, date string) (*domain.Session, error)
	// AppendExercise pushes one planned entry, creating the day document if
	// it does not exist yet.
	AppendExercise(ctx context.Context, athleteID primitive.ObjectID, date string, entry domain.PlannedExercise) error
	// RemoveExercise pulls the entry with the given token and deletes the
	// day document entirely if the entry list became empty.
	RemoveExercise(ctx context.Context, athleteID primitive.ObjectID, date string, entryID string) error
	// UpdateActualSet merges the non-nil fields of update into one actual-set
	// slot of one entry, null-filling skipped indices.
	UpdateActualSet(ctx context.Context, athleteID primitive.ObjectID, date string, entryID string, setIndex int, update domain.SetUpdate) error
	// ListDates returns the date keys that have a session document, for
	// calendar markers.
	ListDates(ctx context.Context, athleteID primitive.ObjectID) ([]string, error)
}

// MessageRepository defines the interface for the per-athlete chat log.
type MessageRepository interface {
	Append(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	// ListByAthlete returns at most limit of the newest messages, in
	// creation-timestamp ascending order.
	ListByAthlete(ctx context.Context, athleteID primitive.ObjectID, limit int) ([]domain.Message, error)
}

// AppointmentRepository defines the interface for the trainer agenda.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Appointment, error) // Ordered by date then time
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ChangeEvent is one live-update notification emitted by a change feed.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"` // insert | update | replace | delete
	DocumentID string    `json:"documentId,omitempty"`
	At         time.Time `json:"at"`
}

// ChangeFeed delivers ordered change notifications for live subscriptions.
// The returned channel preserves store emission order and is closed when the
// context is canceled or the underlying stream fails; there is no ordering
// guarantee across two different feeds.
type ChangeFeed interface {
	WatchRoster(ctx context.Context) (<-chan ChangeEvent, error)
	WatchExercises(ctx context.Context) (<-chan ChangeEvent, error)
	WatchSessions(ctx context.Context, athleteID primitive.ObjectID) (<-chan ChangeEvent, error)
	WatchMessages(ctx context.Context, athleteID primitive.ObjectID) (<-chan ChangeEvent, error)
}
