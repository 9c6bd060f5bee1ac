package service

import (
	"context"
	"errors"
	"fmt"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"ragnar/training-app/internal/storage"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrNoDemoVideo      = errors.New("exercise has no demo video")
)

type ExerciseService interface {
	CreateExercise(ctx context.Context, name, videoURL string) (*domain.Exercise, error)
	GetExercises(ctx context.Context) ([]domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
	// RequestDemoUpload returns a presigned PUT URL for a demo video and
	// records the object key on the exercise.
	RequestDemoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (uploadURL string, err error)
	// DemoDownloadURL presigns a GET link for the recorded demo video.
	DemoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a definition to the library. Blank or whitespace-only
// names are rejected; the video link is optional.
func (s *exerciseService) CreateExercise(ctx context.Context, name, videoURL string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}

	exercise := &domain.Exercise{
		Name:     name,
		VideoURL: videoURL,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	// Fetch again to get the repository-stamped timestamps.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExercises retrieves the library ordered by name ascending.
func (s *exerciseService) GetExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// DeleteExercise removes a definition and its stored demo video, if any.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if exercise.VideoObjectKey != "" {
		// Best effort: the library entry is gone either way.
		_ = s.fileStorage.DeleteObject(ctx, exercise.VideoObjectKey)
	}
	return nil
}

// RequestDemoUpload presigns an upload slot for the exercise's demo video and
// records the object key so downloads can be presigned later.
func (s *exerciseService) RequestDemoUpload(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}

	objectKey := fmt.Sprintf("exercises/%s/demo", exerciseID.Hex())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}

	exercise.VideoObjectKey = objectKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return "", err
	}

	return uploadURL, nil
}

// DemoDownloadURL presigns a download link for the exercise's demo video.
func (s *exerciseService) DemoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}

	if exercise.VideoObjectKey == "" {
		return "", ErrNoDemoVideo
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoObjectKey, storage.DefaultPresignedURLExpiry)
}
