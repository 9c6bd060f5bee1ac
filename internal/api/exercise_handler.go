package api

import (
	"errors"
	"fmt"
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	VideoURL string `json:"videoUrl" binding:"omitempty,url"`
}

type DemoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type DemoURLResponse struct {
	URL string `json:"url"`
}

// --- Handler Methods ---

// CreateExercise handles POST /exercises. Trainer only.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.Name, req.VideoURL)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// GetExercises handles GET /exercises — the shared library, name ascending.
// Both roles read it: trainers to assign, students to follow video links.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	exercises, err := h.exerciseService.GetExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{} // Return empty list, not null
	}
	c.JSON(http.StatusOK, exercises)
}

// DeleteExercise handles DELETE /exercises/:exerciseId. Requires confirm=true.
// Deleting a library entry does not touch sessions that already copied it.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	err := h.exerciseService.DeleteExercise(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestDemoUpload handles POST /exercises/:exerciseId/demo-upload. Returns
// a presigned PUT URL; the client uploads the video directly to storage.
func (h *ExerciseHandler) RequestDemoUpload(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req DemoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	uploadURL, err := h.exerciseService.RequestDemoUpload(c.Request.Context(), exerciseID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, DemoURLResponse{URL: uploadURL})
}

// GetDemoDownloadURL handles GET /exercises/:exerciseId/demo. Returns a
// presigned GET URL for the stored demo video.
func (h *ExerciseHandler) GetDemoDownloadURL(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	downloadURL, err := h.exerciseService.DemoDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoDemoVideo):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}
	c.JSON(http.StatusOK, DemoURLResponse{URL: downloadURL})
}
