package api

import (
	"errors"
	"fmt"
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler holds the trainer service dependency plus the public origin
// used to build invitation links.
type TrainerHandler struct {
	trainerService service.TrainerService
	inviteOrigin   string
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService, inviteOrigin string) *TrainerHandler {
	return &TrainerHandler{
		trainerService: trainerService,
		inviteOrigin:   inviteOrigin,
	}
}

// --- Request/Response Structs ---

type AddAthleteRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Plan      string `json:"plan" binding:"required"`
	StartDate string `json:"startDate" binding:"omitempty"`
}

type UpdateAthletePlanRequest struct {
	Plan   string               `json:"plan" binding:"required"`
	Status domain.AthleteStatus `json:"status" binding:"required,oneof=active pending"`
}

type RoutineNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

type InviteLinkResponse struct {
	URL string `json:"url"`
}

type ScheduleAppointmentRequest struct {
	ClientName string `json:"clientName" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Activity   string `json:"activity"`
}

// === Roster ===

// AddAthlete handles POST /trainer/athletes.
func (h *TrainerHandler) AddAthlete(c *gin.Context) {
	var req AddAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return
	}

	athlete, err := h.trainerService.AddAthlete(c.Request.Context(), trainerID, req.Name, req.Email, req.Plan, req.StartDate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) || errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add athlete")
		}
		return
	}

	c.JSON(http.StatusCreated, athlete)
}

// GetRoster handles GET /trainer/athletes.
func (h *TrainerHandler) GetRoster(c *gin.Context) {
	roster, err := h.trainerService.GetRoster(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve roster")
		return
	}
	if roster == nil {
		roster = []domain.Athlete{} // Return empty list, not null
	}
	c.JSON(http.StatusOK, roster)
}

// GetAthlete handles GET /trainer/athletes/:athleteId.
func (h *TrainerHandler) GetAthlete(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}

	athlete, err := h.trainerService.GetAthlete(c.Request.Context(), athleteID)
	if err != nil {
		if errors.Is(err, service.ErrAthleteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve athlete")
		}
		return
	}
	c.JSON(http.StatusOK, athlete)
}

// UpdateAthletePlan handles PUT /trainer/athletes/:athleteId/plan.
func (h *TrainerHandler) UpdateAthletePlan(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}

	var req UpdateAthletePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	athlete, err := h.trainerService.UpdateAthletePlan(c.Request.Context(), athleteID, req.Plan, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAthleteNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidPlan), errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update athlete")
		}
		return
	}
	c.JSON(http.StatusOK, athlete)
}

// AppendRoutineNote handles POST /trainer/athletes/:athleteId/routine.
func (h *TrainerHandler) AppendRoutineNote(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}

	var req RoutineNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err := h.trainerService.AppendRoutineNote(c.Request.Context(), athleteID, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrAthleteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to append routine note")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRosterStats handles GET /trainer/stats — the dashboard counters.
func (h *TrainerHandler) GetRosterStats(c *gin.Context) {
	stats, err := h.trainerService.RosterStats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute roster stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetInviteLink handles GET /trainer/athletes/:athleteId/invite — the
// shareable registration URL for a profile.
func (h *TrainerHandler) GetInviteLink(c *gin.Context) {
	athleteID, ok := parseObjectIDParam(c, "athleteId")
	if !ok {
		return
	}

	// Verify the profile exists before handing out a link to nowhere.
	if _, err := h.trainerService.GetAthlete(c.Request.Context(), athleteID); err != nil {
		if errors.Is(err, service.ErrAthleteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to build invite link")
		}
		return
	}

	c.JSON(http.StatusOK, InviteLinkResponse{
		URL: h.trainerService.InviteLink(h.inviteOrigin, athleteID),
	})
}

// === Agenda ===

// ScheduleAppointment handles POST /trainer/appointments.
func (h *TrainerHandler) ScheduleAppointment(c *gin.Context) {
	var req ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	appointment, err := h.trainerService.ScheduleAppointment(c.Request.Context(), req.ClientName, req.Date, req.Time, req.Activity)
	if err != nil {
		// Service errors here are all input problems (blank name, bad date).
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// GetAgenda handles GET /trainer/appointments.
func (h *TrainerHandler) GetAgenda(c *gin.Context) {
	agenda, err := h.trainerService.GetAgenda(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve agenda")
		return
	}
	if agenda == nil {
		agenda = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, agenda)
}

// CancelAppointment handles DELETE /trainer/appointments/:appointmentId.
// Requires confirm=true.
func (h *TrainerHandler) CancelAppointment(c *gin.Context) {
	appointmentID, ok := parseObjectIDParam(c, "appointmentId")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	err := h.trainerService.CancelAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to cancel appointment")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
