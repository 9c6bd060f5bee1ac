package service

import (
	"context"
	"errors"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrEntryNotFound     = errors.New("planned exercise entry not found")
	ErrSetIndexOutOfRange = errors.New("set index is outside the planned set count")
)

type SessionService interface {
	// GetSession returns the day's session, or nil when no session document
	// exists for that date — a valid outcome, not an error.
	GetSession(ctx context.Context, athleteID primitive.ObjectID, date string) (*domain.Session, error)
	// AssignExercise appends a planned entry with a fresh identity token to
	// the day's list, creating the session on first assignment.
	AssignExercise(ctx context.Context, athleteID primitive.ObjectID, date, name, sets, reps, weight, videoURL string) (*domain.PlannedExercise, error)
	// RemoveExercise deletes one entry by token; removing the last entry
	// deletes the whole day document.
	RemoveExercise(ctx context.Context, athleteID primitive.ObjectID, date, entryID string) error
	// RecordSetResult merges a partial update into one actual-set slot.
	RecordSetResult(ctx context.Context, athleteID primitive.ObjectID, date, entryID string, setIndex int, update domain.SetUpdate) error
	// ToggleSetCompletion flips the completed flag of one slot.
	ToggleSetCompletion(ctx context.Context, athleteID primitive.ObjectID, date, entryID string, setIndex int) error
	// SessionDates lists the days that have a session, for calendar markers.
	SessionDates(ctx context.Context, athleteID primitive.ObjectID) ([]string, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	athleteRepo repository.AthleteRepository
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, athleteRepo repository.AthleteRepository) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		athleteRepo: athleteRepo,
	}
}

// GetSession returns the day's session, mapping "no document" to nil.
func (s *sessionService) GetSession(ctx context.Context, athleteID primitive.ObjectID, date string) (*domain.Session, error) {
	if !domain.ValidDateKey(date) {
		return nil, ErrInvalidDate
	}

	session, err := s.sessionRepo.Get(ctx, athleteID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil // Rest day: no session planned.
		}
		return nil, err
	}
	return session, nil
}

// AssignExercise validates the target fields and appends the entry.
func (s *sessionService) AssignExercise(ctx context.Context, athleteID primitive.ObjectID, date, name, sets, reps, weight, videoURL string) (*domain.PlannedExercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}
	if !domain.ValidDateKey(date) {
		return nil, ErrInvalidDate
	}
	if _, err := s.athleteRepo.GetByID(ctx, athleteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}

	entry := domain.PlannedExercise{
		EntryID:  uuid.NewString(),
		Name:     name,
		Sets:     sets,
		Reps:     reps,
		Weight:   weight,
		VideoURL: videoURL,
	}

	if err := s.sessionRepo.AppendExercise(ctx, athleteID, date, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RemoveExercise filters the entry out of the day's list; the repository
// deletes the day document when the list becomes empty.
func (s *sessionService) RemoveExercise(ctx context.Context, athleteID primitive.ObjectID, date, entryID string) error {
	if !domain.ValidDateKey(date) {
		return ErrInvalidDate
	}
	err := s.sessionRepo.RemoveExercise(ctx, athleteID, date, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// RecordSetResult validates the slot against the planned set count and merges
// the student-reported fields. Slots beyond the target are not addressable;
// the day always renders exactly TargetSets rows.
func (s *sessionService) RecordSetResult(ctx context.Context, athleteID primitive.ObjectID, date, entryID string, setIndex int, update domain.SetUpdate) error {
	if !domain.ValidDateKey(date) {
		return ErrInvalidDate
	}

	session, err := s.sessionRepo.Get(ctx, athleteID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	var entry *domain.PlannedExercise
	for i := range session.Exercises {
		if session.Exercises[i].EntryID == entryID {
			entry = &session.Exercises[i]
			break
		}
	}
	if entry == nil {
		return ErrEntryNotFound
	}
	if setIndex < 0 || setIndex >= entry.TargetSets() {
		return ErrSetIndexOutOfRange
	}

	err = s.sessionRepo.UpdateActualSet(ctx, athleteID, date, entryID, setIndex, update)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// ToggleSetCompletion reads the slot's current flag and writes its negation.
func (s *sessionService) ToggleSetCompletion(ctx context.Context, athleteID primitive.ObjectID, date, entryID string, setIndex int) error {
	if !domain.ValidDateKey(date) {
		return ErrInvalidDate
	}

	session, err := s.sessionRepo.Get(ctx, athleteID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	for i := range session.Exercises {
		if session.Exercises[i].EntryID != entryID {
			continue
		}
		entry := &session.Exercises[i]
		if setIndex < 0 || setIndex >= entry.TargetSets() {
			return ErrSetIndexOutOfRange
		}
		completed := !entry.ActualSetAt(setIndex).Completed
		err = s.sessionRepo.UpdateActualSet(ctx, athleteID, date, entryID, setIndex, domain.SetUpdate{Completed: &completed})
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return ErrEntryNotFound
}

// SessionDates lists the athlete's planned days ascending.
func (s *sessionService) SessionDates(ctx context.Context, athleteID primitive.ObjectID) ([]string, error) {
	return s.sessionRepo.ListDates(ctx, athleteID)
}
