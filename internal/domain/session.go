package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateKeyLayout is the calendar-day key format for daily sessions.
const DateKeyLayout = "2006-01-02"

// DateKey truncates a point in time to its UTC calendar day key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// ValidDateKey reports whether s is a well-formed session date key.
func ValidDateKey(s string) bool {
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil
}

// Session is the per-athlete, per-calendar-day workout record. A session
// document exists only while it has at least one planned exercise; removing
// the last entry deletes the document rather than persisting an empty list.
// Entry order is insertion order and is the authoritative display order.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD, part of the (athleteId, date) key
	Exercises []PlannedExercise  `bson:"exercises" json:"exercises"`
}

// PlannedExercise is one trainer-assigned movement within a session.
// Target fields are written once by the trainer; only ActualSets is
// student-writable.
type PlannedExercise struct {
	EntryID  string `bson:"entryId" json:"entryId"` // Client-visible identity token, unique within the session
	Name     string `bson:"name" json:"name"`
	Sets     string `bson:"sets" json:"sets"`     // Free text, parsed with TargetSets
	Reps     string `bson:"reps" json:"reps"`     // Free text, allows ranges like "10-12"
	Weight   string `bson:"weight" json:"weight"` // Free text, allows units
	VideoURL string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	// ActualSets is sparse: indices the student has not touched may be nil
	// (or absent beyond the slice length) and read as the zero record.
	ActualSets []*ActualSet `bson:"actualSets,omitempty" json:"actualSets,omitempty"`
}

// ActualSet is one student-reported outcome for one set of one entry.
type ActualSet struct {
	Reps      string `bson:"reps" json:"reps"`
	Weight    string `bson:"weight" json:"weight"`
	Completed bool   `bson:"completed" json:"completed"`
}

// TargetSets parses the planned set count, defaulting to 1 when the field is
// absent or unparseable so the rendered set-row list is never empty.
func (e *PlannedExercise) TargetSets() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Sets))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ActualSetAt returns the record at index i, substituting the zero record for
// absent or nil slots.
func (e *PlannedExercise) ActualSetAt(i int) ActualSet {
	if i < 0 || i >= len(e.ActualSets) || e.ActualSets[i] == nil {
		return ActualSet{}
	}
	return *e.ActualSets[i]
}

// CompletedSets counts the recorded sets marked completed.
func (e *PlannedExercise) CompletedSets() int {
	count := 0
	for _, s := range e.ActualSets {
		if s != nil && s.Completed {
			count++
		}
	}
	return count
}

// IsComplete reports whether the completed count has reached the target.
func (e *PlannedExercise) IsComplete() bool {
	return e.CompletedSets() >= e.TargetSets()
}

// SetUpdate is a partial write to one actual-set slot. Nil fields are left
// untouched; only the student role issues these.
type SetUpdate struct {
	Reps      *string
	Weight    *string
	Completed *bool
}
