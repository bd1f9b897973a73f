package repository

import (
	"strings"

	"github.com/google/uuid"
)

// Table names as they appear in the spreadsheet.
const (
	TableUsers            = "Users"
	TableProfiles         = "Profiles"
	TablePlans            = "Plans"
	TablePlanDays         = "PlanDays"
	TableExercises        = "Exercises"
	TablePlanDayExercises = "PlanDayExercises"
	TableVideos           = "Videos"
	TableWorkoutLogs      = "WorkoutLogs"
	TableSetLogs          = "SetLogs"
	TableBodyLogs         = "BodyLogs"
	TableMessages         = "Messages"
	TableRequests         = "Requests"
)

// Headers defines the positional column layout per table. Row identity is
// the application-level ID column named first (Profiles and SetLogs key on
// userId/logId respectively).
var Headers = map[string][]string{
	TableUsers:    {"userId", "role", "name", "mobile", "createdAt", "trainerId", "allowlistFlag", "secretHash"},
	TableProfiles: {"userId", "weight", "height", "age", "chest", "waist", "biceps", "dietPref", "allergies", "lifestyleJson", "trainingDays", "photosUrlsJson", "updatedAt"},
	TablePlans:    {"planId", "userId", "trainerId", "title", "weekStartDate", "status", "overallNotes", "createdAt"},
	TablePlanDays: {"planDayId", "planId", "dayNumber", "focus", "notes"},
	TableExercises: {
		"exerciseId", "name", "primaryMuscle", "equipment", "defaultCuesJson",
	},
	TablePlanDayExercises: {"planDayId", "exerciseId", "order", "sets", "reps", "restSec", "notes", "videoId", "videoUrl"},
	TableVideos:           {"videoId", "exerciseId", "url", "title", "channel", "thumbnail", "source", "fetchedAt", "score", "searchQuery"},
	TableWorkoutLogs:      {"logId", "userId", "date", "planId", "planDayId", "completedFlag", "notes"},
	TableSetLogs:          {"logId", "exerciseId", "setNumber", "reps", "weight", "rpe", "painFlag"},
	TableBodyLogs:         {"entryId", "userId", "date", "weight", "chest", "waist", "biceps"},
	TableMessages:         {"messageId", "userId", "planId", "senderRole", "text", "createdAt"},
	TableRequests:         {"requestId", "mobile", "name", "notes", "createdAt", "status", "trainerId"},
}

// AllTables lists every table for header bootstrap.
var AllTables = []string{
	TableUsers, TableProfiles, TablePlans, TablePlanDays, TableExercises,
	TablePlanDayExercises, TableVideos, TableWorkoutLogs, TableSetLogs,
	TableBodyLogs, TableMessages, TableRequests,
}

// NewID mints a prefixed opaque row ID, e.g. "plan_1f2e3d4c".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:8]
}
