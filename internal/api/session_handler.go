package api

import (
	"errors"
	"fmt"
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request/Response Structs ---

type AssignExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	Sets     string `json:"sets"`
	Reps     string `json:"reps"`
	Weight   string `json:"weight"`
	VideoURL string `json:"videoUrl" binding:"omitempty,url"`
}

// RecordSetRequest is a partial write: omitted fields leave the slot's current
// value untouched.
type RecordSetRequest struct {
	Reps      *string `json:"reps"`
	Weight    *string `json:"weight"`
	Completed *bool   `json:"completed"`
}

// SessionResponse wraps the day so a rest day serializes as exercises:null
// with an explicit date, instead of an empty body.
type SessionResponse struct {
	Date    string          `json:"date"`
	Session *domain.Session `json:"session"` // Nil on rest days
	RestDay bool            `json:"restDay"`
}

type SessionDatesResponse struct {
	Dates []string `json:"dates"`
}

// --- Handler Methods ---

// GetSession handles GET /athletes/:athleteId/sessions/:date. Trainers see any
// athlete's day; a student only their own.
func (h *SessionHandler) GetSession(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}
	date := c.Param("date")

	session, err := h.sessionService.GetSession(c.Request.Context(), athleteID, date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve session")
		}
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Date:    date,
		Session: session,
		RestDay: session == nil,
	})
}

// AssignExercise handles POST /athletes/:athleteId/sessions/:date/exercises.
// Trainer only; creates the day document on first assignment.
func (h *SessionHandler) AssignExercise(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	date := c.Param("date")

	var req AssignExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.sessionService.AssignExercise(c.Request.Context(), athleteID, date, req.Name, req.Sets, req.Reps, req.Weight, req.VideoURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAthleteNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveExercise handles
// DELETE /athletes/:athleteId/sessions/:date/exercises/:entryId.
// Trainer only, requires confirm=true. Removing the last entry deletes the
// whole day document.
func (h *SessionHandler) RemoveExercise(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}
	date := c.Param("date")
	entryID := c.Param("entryId")

	err := h.sessionService.RemoveExercise(c.Request.Context(), athleteID, date, entryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEntryNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to remove exercise")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordSetResult handles
// PATCH /athletes/:athleteId/sessions/:date/exercises/:entryId/sets/:setIndex.
// Student only, on their own profile.
func (h *SessionHandler) RecordSetResult(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}
	date := c.Param("date")
	entryID := c.Param("entryId")
	setIndex, err := parseSetIndex(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set index")
		return
	}

	var req RecordSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := domain.SetUpdate{
		Reps:      req.Reps,
		Weight:    req.Weight,
		Completed: req.Completed,
	}

	err = h.sessionService.RecordSetResult(c.Request.Context(), athleteID, date, entryID, setIndex, update)
	if err != nil {
		respondSessionWriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleSetCompletion handles
// POST /athletes/:athleteId/sessions/:date/exercises/:entryId/sets/:setIndex/toggle.
func (h *SessionHandler) ToggleSetCompletion(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}
	date := c.Param("date")
	entryID := c.Param("entryId")
	setIndex, err := parseSetIndex(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set index")
		return
	}

	err = h.sessionService.ToggleSetCompletion(c.Request.Context(), athleteID, date, entryID, setIndex)
	if err != nil {
		respondSessionWriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSessionDates handles GET /athletes/:athleteId/sessions — the calendar
// markers for days that have a planned session.
func (h *SessionHandler) GetSessionDates(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}
	if !authorizeAthleteAccess(c, athleteID) {
		return
	}

	dates, err := h.sessionService.SessionDates(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list session dates")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	c.JSON(http.StatusOK, SessionDatesResponse{Dates: dates})
}

// --- Helpers ---

func parseSetIndex(c *gin.Context) (int, error) {
	return strconv.Atoi(c.Param("setIndex"))
}

// respondSessionWriteError maps session mutation errors to HTTP statuses.
func respondSessionWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSetIndexOutOfRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update session")
	}
}
