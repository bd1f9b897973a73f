package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrLogFieldsNeeded = errors.New("date, plan and plan day are required")
	ErrNoSetsLogged    = errors.New("log at least one set")
)

type SetLogInput struct {
	ExerciseID string  `json:"exerciseId"`
	SetNumber  int     `json:"setNumber"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	RPE        float64 `json:"rpe"`
	PainFlag   bool    `json:"painFlag"`
}

type LogWorkoutInput struct {
	Date      string
	PlanID    string
	PlanDayID string
	Completed bool
	Notes     string
	Sets      []SetLogInput
}

type QuickCheckInInput struct {
	Date      string
	PlanID    string
	PlanDayID string
	Feel      string
	Pain      bool
}

// --- Service Interface ---
type WorkoutService interface {
	MarkExercise(ctx context.Context, userID, date, planID, planDayID, exerciseID string) error
	UnmarkExercise(ctx context.Context, userID, date, planID, planDayID, exerciseID string) error
	MarkDay(ctx context.Context, userID, date, planID, planDayID string) error
	UnmarkDay(ctx context.Context, userID, date, planID, planDayID string) error
	CompletedExercises(ctx context.Context, userID, date, planID, planDayID string) ([]string, bool, error)
	LogWorkout(ctx context.Context, userID string, input LogWorkoutInput) (*domain.WorkoutLog, error)
	QuickCheckIn(ctx context.Context, userID, userName string, input QuickCheckInInput) error
}

type workoutService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewWorkoutService(tables *repository.Tables) WorkoutService {
	return &workoutService{tables: tables, now: time.Now}
}

// MarkExercise records a per-exercise completion marker, then reconciles
// the day marker. Marking the same exercise twice is a no-op.
func (s *workoutService) MarkExercise(ctx context.Context, userID, date, planID, planDayID, exerciseID string) error {
	if date == "" || planID == "" || planDayID == "" || exerciseID == "" {
		return ErrLogFieldsNeeded
	}
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	marker := domain.ExerciseMarker(exerciseID)
	if findMarker(logs, userID, date, planID, planDayID, marker) == -1 {
		entry := domain.WorkoutLog{
			LogID:         repository.NewID("log"),
			UserID:        userID,
			Date:          date,
			PlanID:        planID,
			PlanDayID:     planDayID,
			CompletedFlag: marker.CompletedFlag(),
			Notes:         marker.Note(),
		}
		if err := s.tables.AppendWorkoutLog(ctx, entry); err != nil {
			return err
		}
		logs = append(logs, entry)
	}
	return s.syncDayCompletion(ctx, logs, userID, date, planID, planDayID)
}

// UnmarkExercise removes the per-exercise marker if present, then
// reconciles the day marker.
func (s *workoutService) UnmarkExercise(ctx context.Context, userID, date, planID, planDayID, exerciseID string) error {
	if date == "" || planID == "" || planDayID == "" || exerciseID == "" {
		return ErrLogFieldsNeeded
	}
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	marker := domain.ExerciseMarker(exerciseID)
	if idx := findMarker(logs, userID, date, planID, planDayID, marker); idx != -1 {
		logs = append(logs[:idx], logs[idx+1:]...)
		if err := s.tables.ReplaceWorkoutLogs(ctx, logs); err != nil {
			return err
		}
	}
	return s.syncDayCompletion(ctx, logs, userID, date, planID, planDayID)
}

// MarkDay forces a whole-day completion marker regardless of per-exercise
// state.
func (s *workoutService) MarkDay(ctx context.Context, userID, date, planID, planDayID string) error {
	if date == "" || planID == "" || planDayID == "" {
		return ErrLogFieldsNeeded
	}
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	marker := domain.DayMarker()
	if findMarker(logs, userID, date, planID, planDayID, marker) != -1 {
		return nil
	}
	return s.tables.AppendWorkoutLog(ctx, domain.WorkoutLog{
		LogID:         repository.NewID("log"),
		UserID:        userID,
		Date:          date,
		PlanID:        planID,
		PlanDayID:     planDayID,
		CompletedFlag: marker.CompletedFlag(),
		Notes:         marker.Note(),
	})
}

// UnmarkDay removes the whole-day marker only. Per-exercise markers stay
// untouched, so the day toggle is independent of exercise-level state.
func (s *workoutService) UnmarkDay(ctx context.Context, userID, date, planID, planDayID string) error {
	if date == "" || planID == "" || planDayID == "" {
		return ErrLogFieldsNeeded
	}
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	idx := findMarker(logs, userID, date, planID, planDayID, domain.DayMarker())
	if idx == -1 {
		return nil
	}
	logs = append(logs[:idx], logs[idx+1:]...)
	return s.tables.ReplaceWorkoutLogs(ctx, logs)
}

// syncDayCompletion reconciles the day marker against the planned set:
// when the day's planned exercises are all individually marked the day
// marker is inserted, and when coverage breaks it is removed. A day with
// no planned exercises is left alone.
func (s *workoutService) syncDayCompletion(ctx context.Context, logs []domain.WorkoutLog, userID, date, planID, planDayID string) error {
	links, err := s.tables.PlanDayExercises(ctx)
	if err != nil {
		return err
	}
	planned := make(map[string]bool)
	for _, l := range links {
		if l.PlanDayID == planDayID {
			planned[l.ExerciseID] = true
		}
	}
	if len(planned) == 0 {
		return nil
	}

	completed := make(map[string]bool)
	dayMarkerIdx := -1
	for i, l := range logs {
		if l.UserID != userID || l.Date != date || l.PlanID != planID || l.PlanDayID != planDayID {
			continue
		}
		marker, ok := domain.ParseCompletionMarker(l.Notes)
		if !ok {
			continue
		}
		switch marker.Kind {
		case domain.MarkerDay:
			dayMarkerIdx = i
		case domain.MarkerExercise:
			completed[marker.ExerciseID] = true
		}
	}

	covered := true
	for exerciseID := range planned {
		if !completed[exerciseID] {
			covered = false
			break
		}
	}

	if covered && dayMarkerIdx == -1 {
		marker := domain.DayMarker()
		return s.tables.AppendWorkoutLog(ctx, domain.WorkoutLog{
			LogID:         repository.NewID("log"),
			UserID:        userID,
			Date:          date,
			PlanID:        planID,
			PlanDayID:     planDayID,
			CompletedFlag: marker.CompletedFlag(),
			Notes:         marker.Note(),
		})
	}
	if !covered && dayMarkerIdx != -1 {
		kept := append(logs[:dayMarkerIdx:dayMarkerIdx], logs[dayMarkerIdx+1:]...)
		return s.tables.ReplaceWorkoutLogs(ctx, kept)
	}
	return nil
}

// CompletedExercises reports which exercises carry markers for one day,
// plus whether the day itself is marked done.
func (s *workoutService) CompletedExercises(ctx context.Context, userID, date, planID, planDayID string) ([]string, bool, error) {
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return nil, false, err
	}
	var exerciseIDs []string
	dayDone := false
	for _, l := range logs {
		if l.UserID != userID || l.Date != date || l.PlanID != planID || l.PlanDayID != planDayID {
			continue
		}
		marker, ok := domain.ParseCompletionMarker(l.Notes)
		if !ok {
			continue
		}
		if marker.Kind == domain.MarkerDay {
			dayDone = true
		} else {
			exerciseIDs = append(exerciseIDs, marker.ExerciseID)
		}
	}
	return exerciseIDs, dayDone, nil
}

// LogWorkout stores a detailed session: one workout log row and one set
// log row per performed set.
func (s *workoutService) LogWorkout(ctx context.Context, userID string, input LogWorkoutInput) (*domain.WorkoutLog, error) {
	if input.Date == "" || input.PlanID == "" || input.PlanDayID == "" {
		return nil, ErrLogFieldsNeeded
	}
	if len(input.Sets) == 0 {
		return nil, ErrNoSetsLogged
	}

	entry := domain.WorkoutLog{
		LogID:         repository.NewID("log"),
		UserID:        userID,
		Date:          input.Date,
		PlanID:        input.PlanID,
		PlanDayID:     input.PlanDayID,
		CompletedFlag: input.Completed,
		Notes:         input.Notes,
	}
	if err := s.tables.AppendWorkoutLog(ctx, entry); err != nil {
		return nil, err
	}

	sets := make([]domain.SetLog, 0, len(input.Sets))
	for i, set := range input.Sets {
		setNumber := set.SetNumber
		if setNumber == 0 {
			setNumber = i + 1
		}
		sets = append(sets, domain.SetLog{
			LogID:      entry.LogID,
			ExerciseID: set.ExerciseID,
			SetNumber:  setNumber,
			Reps:       set.Reps,
			Weight:     set.Weight,
			RPE:        set.RPE,
			PainFlag:   set.PainFlag,
		})
	}
	if err := s.tables.AppendSetLogs(ctx, sets); err != nil {
		return nil, err
	}
	return &entry, nil
}

// QuickCheckIn records a lightweight post-session note. Reported pain
// additionally drops an automatic message on the user's thread so the
// trainer sees it without opening the logs.
func (s *workoutService) QuickCheckIn(ctx context.Context, userID, userName string, input QuickCheckInInput) error {
	if input.Date == "" || input.PlanID == "" || input.PlanDayID == "" {
		return ErrLogFieldsNeeded
	}
	entry := domain.WorkoutLog{
		LogID:         repository.NewID("log"),
		UserID:        userID,
		Date:          input.Date,
		PlanID:        input.PlanID,
		PlanDayID:     input.PlanDayID,
		CompletedFlag: true,
		Notes:         EffortFeedback(input.Feel, input.Pain),
	}
	if err := s.tables.AppendWorkoutLog(ctx, entry); err != nil {
		return err
	}
	if input.Pain {
		name := userName
		if name == "" {
			name = "A member"
		}
		return s.tables.AppendMessage(ctx, domain.Message{
			MessageID:  repository.NewID("msg"),
			UserID:     userID,
			PlanID:     input.PlanID,
			SenderRole: domain.RoleUser,
			Text:       fmt.Sprintf("%s reported pain during the %s session. Please review.", name, input.Date),
			CreatedAt:  s.now(),
		})
	}
	return nil
}

func findMarker(logs []domain.WorkoutLog, userID, date, planID, planDayID string, marker domain.CompletionMarker) int {
	for i, l := range logs {
		if l.UserID == userID && l.Date == date && l.PlanID == planID && l.PlanDayID == planDayID && l.Notes == marker.Note() {
			return i
		}
	}
	return -1
}
