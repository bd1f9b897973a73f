package domain

import "time"

// PlanStatus type for plan lifecycle
type PlanStatus string

const (
	PlanDraft    PlanStatus = "draft"
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// Plan represents a trainee's weekly workout program header.
// Invariant: for a given UserID at most one plan has status "active";
// the reconciliation engine demotes competitors to "draft" on activation.
type Plan struct {
	PlanID        string     `json:"planId"`
	UserID        string     `json:"userId"`
	TrainerID     string     `json:"trainerId"`
	Title         string     `json:"title"`
	WeekStartDate string     `json:"weekStartDate"` // YYYY-MM-DD
	Status        PlanStatus `json:"status"`
	OverallNotes  string     `json:"overallNotes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PlanDay is one ordered day within a plan. DayNumber is 1-based and
// unique within the plan.
type PlanDay struct {
	PlanDayID string `json:"planDayId"`
	PlanID    string `json:"planId"`
	DayNumber int    `json:"dayNumber"`
	Focus     string `json:"focus"`
	Notes     string `json:"notes,omitempty"`
}

// PlanDayExercise links an exercise into a plan day. Rows are owned by the
// day and replaced wholesale on plan edit.
type PlanDayExercise struct {
	PlanDayID  string `json:"planDayId"`
	ExerciseID string `json:"exerciseId"`
	Order      int    `json:"order"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"` // free text; "as prescribed" normalizes to empty
	RestSec    int    `json:"restSec"`
	Notes      string `json:"notes,omitempty"`
	VideoID    string `json:"videoId,omitempty"`
	VideoURL   string `json:"videoUrl,omitempty"`
}
