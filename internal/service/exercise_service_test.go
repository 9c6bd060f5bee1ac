package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestExerciseService() (ExerciseService, *fakeExerciseRepo, *fakeFileStorage) {
	exerciseRepo := newFakeExerciseRepo()
	fileStorage := &fakeFileStorage{}
	return NewExerciseService(exerciseRepo, fileStorage), exerciseRepo, fileStorage
}

func TestCreateExercise(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExerciseService()

	exercise, err := svc.CreateExercise(ctx, "  Sentadilla  ", "https://videos.example.com/squat")
	require.NoError(t, err)
	assert.Equal(t, "Sentadilla", exercise.Name)
	assert.Equal(t, "https://videos.example.com/squat", exercise.VideoURL)
	assert.False(t, exercise.CreatedAt.IsZero())

	_, err = svc.CreateExercise(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetExercisesSortedByName(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExerciseService()

	for _, name := range []string{"Zancadas", "Press Banca", "Sentadilla"} {
		_, err := svc.CreateExercise(ctx, name, "")
		require.NoError(t, err)
	}

	exercises, err := svc.GetExercises(ctx)
	require.NoError(t, err)
	require.Len(t, exercises, 3)
	assert.Equal(t, "Press Banca", exercises[0].Name)
	assert.Equal(t, "Sentadilla", exercises[1].Name)
	assert.Equal(t, "Zancadas", exercises[2].Name)
}

func TestDeleteExerciseCleansUpDemoVideo(t *testing.T) {
	ctx := context.Background()
	svc, exerciseRepo, fileStorage := newTestExerciseService()

	exercise, err := svc.CreateExercise(ctx, "Sentadilla", "")
	require.NoError(t, err)

	_, err = svc.RequestDemoUpload(ctx, exercise.ID, "video/mp4")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(ctx, exercise.ID))

	_, err = exerciseRepo.GetByID(ctx, exercise.ID)
	assert.Error(t, err)

	require.Len(t, fileStorage.deleted, 1)
	assert.Equal(t, "exercises/"+exercise.ID.Hex()+"/demo", fileStorage.deleted[0])

	err = svc.DeleteExercise(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestDeleteExerciseWithoutDemoSkipsStorage(t *testing.T) {
	ctx := context.Background()
	svc, _, fileStorage := newTestExerciseService()

	exercise, err := svc.CreateExercise(ctx, "Sentadilla", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExercise(ctx, exercise.ID))
	assert.Empty(t, fileStorage.deleted)
}

func TestRequestDemoUploadRecordsObjectKey(t *testing.T) {
	ctx := context.Background()
	svc, exerciseRepo, fileStorage := newTestExerciseService()

	exercise, err := svc.CreateExercise(ctx, "Sentadilla", "")
	require.NoError(t, err)

	uploadURL, err := svc.RequestDemoUpload(ctx, exercise.ID, "video/mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, uploadURL)
	require.Len(t, fileStorage.uploads, 1)

	stored, err := exerciseRepo.GetByID(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "exercises/"+exercise.ID.Hex()+"/demo", stored.VideoObjectKey)

	_, err = svc.RequestDemoUpload(ctx, primitive.NewObjectID(), "video/mp4")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestDemoDownloadURL(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExerciseService()

	exercise, err := svc.CreateExercise(ctx, "Sentadilla", "")
	require.NoError(t, err)

	// No demo uploaded yet.
	_, err = svc.DemoDownloadURL(ctx, exercise.ID)
	assert.ErrorIs(t, err, ErrNoDemoVideo)

	_, err = svc.RequestDemoUpload(ctx, exercise.ID, "video/mp4")
	require.NoError(t, err)

	downloadURL, err := svc.DemoDownloadURL(ctx, exercise.ID)
	require.NoError(t, err)
	assert.Contains(t, downloadURL, exercise.ID.Hex())
}
