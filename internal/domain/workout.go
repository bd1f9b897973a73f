package domain

import (
	"fmt"
	"strings"
)

// WorkoutLog is an append-only event row. Completion state is modeled as
// marker rows (see CompletionMarker); undo deletes the matching marker row
// rather than toggling a flag, everything else is immutable history.
type WorkoutLog struct {
	LogID         string `json:"logId"`
	UserID        string `json:"userId"`
	Date          string `json:"date"` // YYYY-MM-DD
	PlanID        string `json:"planId"`
	PlanDayID     string `json:"planDayId"`
	CompletedFlag bool   `json:"completedFlag"`
	Notes         string `json:"notes,omitempty"`
}

// SetLog records one performed set under a WorkoutLog.
type SetLog struct {
	LogID      string  `json:"logId"`
	ExerciseID string  `json:"exerciseId"`
	SetNumber  int     `json:"setNumber"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	RPE        float64 `json:"rpe"`
	PainFlag   bool    `json:"painFlag"`
}

// BodyLog is a per-user dated body-measurement snapshot.
type BodyLog struct {
	EntryID string  `json:"entryId"`
	UserID  string  `json:"userId"`
	Date    string  `json:"date"`
	Weight  float64 `json:"weight"`
	Chest   float64 `json:"chest"`
	Waist   float64 `json:"waist"`
	Biceps  float64 `json:"biceps"`
}

// MarkerKind discriminates completion markers.
type MarkerKind string

const (
	MarkerDay      MarkerKind = "day"
	MarkerExercise MarkerKind = "exercise"
)

const (
	dayMarkerNote        = "completion:day"
	exerciseMarkerPrefix = "completion:exercise:"
)

// CompletionMarker is the typed form of a marker row's notes cell. It still
// persists as a flat string for the tabular store.
type CompletionMarker struct {
	Kind       MarkerKind
	ExerciseID string // set when Kind == MarkerExercise
}

// DayMarker returns the whole-day completion marker.
func DayMarker() CompletionMarker {
	return CompletionMarker{Kind: MarkerDay}
}

// ExerciseMarker returns the single-exercise completion marker.
func ExerciseMarker(exerciseID string) CompletionMarker {
	return CompletionMarker{Kind: MarkerExercise, ExerciseID: exerciseID}
}

// Note renders the marker into its notes-cell encoding.
func (m CompletionMarker) Note() string {
	if m.Kind == MarkerExercise {
		return exerciseMarkerPrefix + m.ExerciseID
	}
	return dayMarkerNote
}

// CompletedFlag reports the completedFlag value a marker row carries: day
// markers count the session as done, exercise markers do not by themselves.
func (m CompletionMarker) CompletedFlag() bool {
	return m.Kind == MarkerDay
}

// ParseCompletionMarker decodes a notes cell; ok is false for free text.
func ParseCompletionMarker(notes string) (CompletionMarker, bool) {
	if notes == dayMarkerNote {
		return DayMarker(), true
	}
	if id, found := strings.CutPrefix(notes, exerciseMarkerPrefix); found && id != "" {
		return ExerciseMarker(id), true
	}
	return CompletionMarker{}, false
}

func (m CompletionMarker) String() string {
	if m.Kind == MarkerExercise {
		return fmt.Sprintf("exercise marker (%s)", m.ExerciseID)
	}
	return "day marker"
}
