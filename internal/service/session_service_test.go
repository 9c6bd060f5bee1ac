package service

import (
	"context"
	"testing"

	"ragnar/training-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestSessionService(t *testing.T) (SessionService, primitive.ObjectID) {
	t.Helper()
	athleteRepo := newFakeAthleteRepo()
	athleteID, err := athleteRepo.Create(context.Background(), &domain.Athlete{
		Name:      "Ana",
		Plan:      "Fuerza",
		Status:    domain.AthleteActive,
		TrainerID: primitive.NewObjectID(),
	})
	require.NoError(t, err)
	return NewSessionService(newFakeSessionRepo(), athleteRepo), athleteID
}

func TestGetSessionRestDay(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)

	session, err := svc.GetSession(ctx, athleteID, "2026-03-02")
	require.NoError(t, err)
	assert.Nil(t, session) // No document, no error: a rest day.

	_, err = svc.GetSession(ctx, athleteID, "02/03/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAssignExerciseValidation(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)

	_, err := svc.AssignExercise(ctx, athleteID, "2026-03-02", "   ", "4", "10", "40kg", "")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.AssignExercise(ctx, athleteID, "not-a-date", "Sentadilla", "4", "10", "40kg", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.AssignExercise(ctx, primitive.NewObjectID(), "2026-03-02", "Sentadilla", "4", "10", "40kg", "")
	assert.ErrorIs(t, err, ErrAthleteNotFound)
}

func TestAssignThenRemoveLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	entry, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "4", "10", "40kg", "")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.EntryID)

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Len(t, session.Exercises, 1)

	err = svc.RemoveExercise(ctx, athleteID, date, entry.EntryID)
	require.NoError(t, err)

	// Removing the last entry deletes the day entirely.
	session, err = svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	assert.Nil(t, session)

	dates, err := svc.SessionDates(ctx, athleteID)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestRemoveExerciseKeepsOtherEntries(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	first, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "4", "10", "40kg", "")
	require.NoError(t, err)
	second, err := svc.AssignExercise(ctx, athleteID, date, "Press Banca", "3", "8", "60kg", "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveExercise(ctx, athleteID, date, first.EntryID))

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Len(t, session.Exercises, 1)
	assert.Equal(t, second.EntryID, session.Exercises[0].EntryID)

	err = svc.RemoveExercise(ctx, athleteID, date, "no-such-entry")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRecordSetResult(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	entry, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "4", "10", "40kg", "")
	require.NoError(t, err)

	reps := "10"
	weight := "42kg"
	completed := true
	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, 0, domain.SetUpdate{
		Reps:      &reps,
		Weight:    &weight,
		Completed: &completed,
	})
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	require.Len(t, session.Exercises, 1)

	got := session.Exercises[0]
	recorded := got.ActualSetAt(0)
	assert.Equal(t, "10", recorded.Reps)
	assert.Equal(t, "42kg", recorded.Weight)
	assert.True(t, recorded.Completed)

	// One of four sets done: progress, not completion.
	assert.Equal(t, 1, got.CompletedSets())
	assert.False(t, got.IsComplete())
}

func TestRecordSetResultSparseSlots(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	entry, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "4", "10", "40kg", "")
	require.NoError(t, err)

	// Record set 2 first, skipping 0 and 1.
	completed := true
	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, 2, domain.SetUpdate{Completed: &completed})
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	got := session.Exercises[0]

	// Untouched slots read as the zero record.
	assert.Equal(t, domain.ActualSet{}, got.ActualSetAt(0))
	assert.Equal(t, domain.ActualSet{}, got.ActualSetAt(1))
	assert.True(t, got.ActualSetAt(2).Completed)
	assert.Equal(t, 1, got.CompletedSets())
}

func TestRecordSetResultBounds(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	entry, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "4", "10", "40kg", "")
	require.NoError(t, err)

	completed := true
	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, 4, domain.SetUpdate{Completed: &completed})
	assert.ErrorIs(t, err, ErrSetIndexOutOfRange)

	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, -1, domain.SetUpdate{Completed: &completed})
	assert.ErrorIs(t, err, ErrSetIndexOutOfRange)

	err = svc.RecordSetResult(ctx, athleteID, date, "no-such-entry", 0, domain.SetUpdate{Completed: &completed})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUnparseableTargetAllowsSingleSlot(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	// "3x10" does not parse as a count, so the entry renders one set row.
	entry, err := svc.AssignExercise(ctx, athleteID, date, "Zancadas", "3x10", "10", "", "")
	require.NoError(t, err)

	completed := true
	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, 0, domain.SetUpdate{Completed: &completed})
	require.NoError(t, err)

	err = svc.RecordSetResult(ctx, athleteID, date, entry.EntryID, 1, domain.SetUpdate{Completed: &completed})
	assert.ErrorIs(t, err, ErrSetIndexOutOfRange)

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	assert.True(t, session.Exercises[0].IsComplete())
}

func TestToggleSetCompletion(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)
	date := "2026-03-02"

	entry, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "2", "10", "40kg", "")
	require.NoError(t, err)

	require.NoError(t, svc.ToggleSetCompletion(ctx, athleteID, date, entry.EntryID, 0))

	session, err := svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	assert.True(t, session.Exercises[0].ActualSetAt(0).Completed)

	// Toggling again flips it back.
	require.NoError(t, svc.ToggleSetCompletion(ctx, athleteID, date, entry.EntryID, 0))

	session, err = svc.GetSession(ctx, athleteID, date)
	require.NoError(t, err)
	assert.False(t, session.Exercises[0].ActualSetAt(0).Completed)
}

func TestSessionDatesSorted(t *testing.T) {
	ctx := context.Background()
	svc, athleteID := newTestSessionService(t)

	for _, date := range []string{"2026-03-05", "2026-03-01", "2026-03-03"} {
		_, err := svc.AssignExercise(ctx, athleteID, date, "Sentadilla", "3", "10", "", "")
		require.NoError(t, err)
	}

	dates, err := svc.SessionDates(ctx, athleteID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-03-03", "2026-03-05"}, dates)
}
