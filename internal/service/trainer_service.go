package service

import (
	"context"
	"errors"
	"fmt"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAthleteNotFound     = errors.New("athlete profile not found")
	ErrInvalidPlan         = errors.New("unknown training plan label")
	ErrInvalidStatus       = errors.New("athlete status must be active or pending")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// RosterStats is the dashboard summary derived from the roster. Computed on
// read, never stored.
type RosterStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Pending int `json:"pending"`
}

type TrainerService interface {
	// Roster
	AddAthlete(ctx context.Context, trainerID primitive.ObjectID, name, email, plan, startDate string) (*domain.Athlete, error)
	GetRoster(ctx context.Context) ([]domain.Athlete, error)
	GetAthlete(ctx context.Context, athleteID primitive.ObjectID) (*domain.Athlete, error)
	UpdateAthletePlan(ctx context.Context, athleteID primitive.ObjectID, plan string, status domain.AthleteStatus) (*domain.Athlete, error)
	AppendRoutineNote(ctx context.Context, athleteID primitive.ObjectID, note string) error
	RosterStats(ctx context.Context) (*RosterStats, error)
	// InviteLink builds the shareable registration URL for a profile.
	InviteLink(origin string, athleteID primitive.ObjectID) string

	// Agenda
	ScheduleAppointment(ctx context.Context, clientName, date, timeOfDay, activity string) (*domain.Appointment, error)
	GetAgenda(ctx context.Context) ([]domain.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID primitive.ObjectID) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	athleteRepo     repository.AthleteRepository
	appointmentRepo repository.AppointmentRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	athleteRepo repository.AthleteRepository,
	appointmentRepo repository.AppointmentRepository,
) TrainerService {
	return &trainerService{
		athleteRepo:     athleteRepo,
		appointmentRepo: appointmentRepo,
	}
}

// === Roster ===

// AddAthlete creates a new roster profile owned by the trainer. The profile
// starts active with no linked login; the invitation flow attaches one later.
func (s *trainerService) AddAthlete(ctx context.Context, trainerID primitive.ObjectID, name, email, plan, startDate string) (*domain.Athlete, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidationFailed
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	if !domain.IsValidPlan(plan) {
		return nil, ErrInvalidPlan
	}

	athlete := &domain.Athlete{
		Name:        name,
		Email:       email,
		Plan:        plan,
		Status:      domain.AthleteActive,
		StartDate:   startDate,
		LastCheckin: "N/A",
		TrainerID:   trainerID,
	}

	athleteID, err := s.athleteRepo.Create(ctx, athlete)
	if err != nil {
		return nil, err
	}
	athlete.ID = athleteID
	return athlete, nil
}

// GetRoster retrieves the full roster.
func (s *trainerService) GetRoster(ctx context.Context) ([]domain.Athlete, error) {
	return s.athleteRepo.List(ctx)
}

// GetAthlete retrieves a single profile.
func (s *trainerService) GetAthlete(ctx context.Context, athleteID primitive.ObjectID) (*domain.Athlete, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return athlete, nil
}

// UpdateAthletePlan edits the trainer-managed lifecycle fields of a profile.
func (s *trainerService) UpdateAthletePlan(ctx context.Context, athleteID primitive.ObjectID, plan string, status domain.AthleteStatus) (*domain.Athlete, error) {
	if !domain.IsValidPlan(plan) {
		return nil, ErrInvalidPlan
	}
	if status != domain.AthleteActive && status != domain.AthletePending {
		return nil, ErrInvalidStatus
	}

	err := s.athleteRepo.UpdatePlanAndStatus(ctx, athleteID, plan, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return s.GetAthlete(ctx, athleteID)
}

// AppendRoutineNote records a free-form routine history entry on the profile.
func (s *trainerService) AppendRoutineNote(ctx context.Context, athleteID primitive.ObjectID, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return ErrValidationFailed
	}
	err := s.athleteRepo.AppendRoutineNote(ctx, athleteID, note)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAthleteNotFound
	}
	return err
}

// RosterStats derives the dashboard counters from the roster.
func (s *trainerService) RosterStats(ctx context.Context) (*RosterStats, error) {
	roster, err := s.athleteRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &RosterStats{Total: len(roster)}
	for _, a := range roster {
		switch a.Status {
		case domain.AthleteActive:
			stats.Active++
		case domain.AthletePending:
			stats.Pending++
		}
	}
	return stats, nil
}

// InviteLink builds the URL a trainer shares with an athlete. The invite key
// is the profile ID itself.
func (s *trainerService) InviteLink(origin string, athleteID primitive.ObjectID) string {
	return fmt.Sprintf("%s/?invite=%s", strings.TrimRight(origin, "/"), athleteID.Hex())
}

// === Agenda ===

// ScheduleAppointment adds a slot to the trainer's agenda.
func (s *trainerService) ScheduleAppointment(ctx context.Context, clientName, date, timeOfDay, activity string) (*domain.Appointment, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, ErrValidationFailed
	}
	if !domain.ValidDateKey(date) {
		return nil, errors.New("appointment date must be YYYY-MM-DD")
	}
	if activity == "" {
		activity = "Entrenamiento Personal"
	}

	appointment := &domain.Appointment{
		ClientName: clientName,
		Date:       date,
		Time:       timeOfDay,
		Activity:   activity,
	}

	appointmentID, err := s.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		return nil, err
	}
	appointment.ID = appointmentID
	return appointment, nil
}

// GetAgenda lists the scheduled slots ordered by date then time.
func (s *trainerService) GetAgenda(ctx context.Context) ([]domain.Appointment, error) {
	return s.appointmentRepo.List(ctx)
}

// CancelAppointment removes a slot. The confirmation step lives at the API
// boundary; by the time this runs the destruction is decided.
func (s *trainerService) CancelAppointment(ctx context.Context, appointmentID primitive.ObjectID) error {
	err := s.appointmentRepo.Delete(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	return err
}
