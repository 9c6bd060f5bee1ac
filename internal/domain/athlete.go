package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AthleteStatus type for athlete lifecycle
type AthleteStatus string

const (
	AthleteActive  AthleteStatus = "active"
	AthletePending AthleteStatus = "pending"
)

// PlanLabels is the closed set of program names a profile may carry.
var PlanLabels = []string{
	"Hipertrofia",
	"Pérdida de Peso",
	"Fuerza",
	"Funcional",
	"Crossfit",
}

// IsValidPlan reports whether label is one of the known program names.
func IsValidPlan(label string) bool {
	for _, p := range PlanLabels {
		if p == label {
			return true
		}
	}
	return false
}

// Athlete is a roster profile managed by a trainer. Profiles are created by
// the trainer before the athlete has a login; the invitation flow later links
// the profile to a User account via StudentUserID (set once, never relinked).
type Athlete struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Email       string              `bson:"email,omitempty" json:"email,omitempty"` // Contact; overwritten with the login email on link
	Plan        string              `bson:"plan" json:"plan"`
	Status      AthleteStatus       `bson:"status" json:"status"`
	StartDate   string              `bson:"startDate,omitempty" json:"startDate,omitempty"` // ISO date from the intake form
	LastCheckin string              `bson:"lastCheckin,omitempty" json:"lastCheckin,omitempty"`
	Routine     []string            `bson:"routine,omitempty" json:"routine,omitempty"` // Free-form routine history notes
	TrainerID   primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	StudentUserID *primitive.ObjectID `bson:"studentUserId,omitempty" json:"studentUserId,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsLinked reports whether a login account has been linked to this profile.
func (a *Athlete) IsLinked() bool {
	return a.StudentUserID != nil && *a.StudentUserID != primitive.NilObjectID
}
