package service

import (
	"context"
	"math"
	"sort"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// CompletionEntry is one day-session in the completion history.
type CompletionEntry struct {
	Date      string `json:"date"`
	PlanID    string `json:"planId"`
	PlanDayID string `json:"planDayId"`
	Completed bool   `json:"completed"`
}

// StrengthPoint is the best single-set load for one exercise on one date,
// scored as weight times reps.
type StrengthPoint struct {
	ExerciseID   string  `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	Date         string  `json:"date"`
	BestLoad     float64 `json:"bestLoad"`
}

type UserProgress struct {
	AdherencePct      int               `json:"adherencePct"`
	Nudge             string            `json:"nudge"`
	CompletionHistory []CompletionEntry `json:"completionHistory"`
	BodyTrend         []domain.BodyLog  `json:"bodyTrend"`
	Strength          []StrengthPoint   `json:"strength"`
}

// --- Service Interface ---
type ProgressService interface {
	GetUserProgress(ctx context.Context, userID string) (*UserProgress, error)
	LogBody(ctx context.Context, userID string, entry domain.BodyLog) (*domain.BodyLog, error)
}

type progressService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewProgressService(tables *repository.Tables) ProgressService {
	return &progressService{tables: tables, now: time.Now}
}

// GetUserProgress derives the dashboard numbers from the raw logs.
// Adherence groups workout log rows by date, plan and plan day; a group
// counts as completed when any row in it has the completed flag or a
// whole-day marker.
func (s *progressService) GetUserProgress(ctx context.Context, userID string) (*UserProgress, error) {
	logs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return nil, err
	}
	setLogs, err := s.tables.SetLogs(ctx)
	if err != nil {
		return nil, err
	}
	bodyLogs, err := s.tables.BodyLogs(ctx)
	if err != nil {
		return nil, err
	}
	exercises, err := s.tables.Exercises(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*CompletionEntry)
	logDates := make(map[string]string)
	for _, l := range logs {
		if l.UserID != userID {
			continue
		}
		logDates[l.LogID] = l.Date
		key := l.Date + "::" + l.PlanID + "::" + l.PlanDayID
		g, ok := groups[key]
		if !ok {
			g = &CompletionEntry{Date: l.Date, PlanID: l.PlanID, PlanDayID: l.PlanDayID}
			groups[key] = g
		}
		if l.CompletedFlag || l.Notes == domain.DayMarker().Note() {
			g.Completed = true
		}
	}

	history := make([]CompletionEntry, 0, len(groups))
	completed := 0
	for _, g := range groups {
		history = append(history, *g)
		if g.Completed {
			completed++
		}
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].PlanDayID < history[j].PlanDayID
	})

	adherence := 0
	if len(groups) > 0 {
		adherence = int(math.Round(100 * float64(completed) / float64(len(groups))))
	}

	exerciseNames := make(map[string]string, len(exercises))
	for _, e := range exercises {
		exerciseNames[e.ExerciseID] = e.Name
	}

	// Single best weight×reps set ever logged per exercise, from this
	// user's sets only. The date of that best set rides along for display.
	bestByExercise := make(map[string]*StrengthPoint)
	for _, sl := range setLogs {
		date, ok := logDates[sl.LogID]
		if !ok {
			continue
		}
		load := sl.Weight * float64(sl.Reps)
		point, seen := bestByExercise[sl.ExerciseID]
		if !seen {
			name := exerciseNames[sl.ExerciseID]
			if name == "" {
				name = sl.ExerciseID
			}
			bestByExercise[sl.ExerciseID] = &StrengthPoint{
				ExerciseID:   sl.ExerciseID,
				ExerciseName: name,
				Date:         date,
				BestLoad:     load,
			}
			continue
		}
		if load > point.BestLoad {
			point.BestLoad = load
			point.Date = date
		}
	}
	strength := make([]StrengthPoint, 0, len(bestByExercise))
	for _, p := range bestByExercise {
		strength = append(strength, *p)
	}
	sort.Slice(strength, func(i, j int) bool {
		if strength[i].ExerciseName != strength[j].ExerciseName {
			return strength[i].ExerciseName < strength[j].ExerciseName
		}
		return strength[i].Date < strength[j].Date
	})

	var trend []domain.BodyLog
	for _, b := range bodyLogs {
		if b.UserID == userID {
			trend = append(trend, b)
		}
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })

	return &UserProgress{
		AdherencePct:      adherence,
		Nudge:             NudgeByAdherence(adherence),
		CompletionHistory: history,
		BodyTrend:         trend,
		Strength:          strength,
	}, nil
}

func (s *progressService) LogBody(ctx context.Context, userID string, entry domain.BodyLog) (*domain.BodyLog, error) {
	if entry.Date == "" {
		entry.Date = s.now().Format("2006-01-02")
	}
	entry.EntryID = repository.NewID("body")
	entry.UserID = userID
	if err := s.tables.AppendBodyLog(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// NudgeByAdherence maps the adherence percentage to a short motivational
// line.
func NudgeByAdherence(pct int) string {
	switch {
	case pct >= 85:
		return "Outstanding consistency. Keep stacking those sessions."
	case pct >= 60:
		return "Solid work. A couple more sessions and you are in the top bracket."
	default:
		return "Every session counts. Pick one day this week and show up."
	}
}

// EffortFeedback turns the quick check-in feel into the note stored on the
// workout log.
func EffortFeedback(feel string, pain bool) string {
	if pain {
		return "Flagged pain. Ease off and tell your trainer before the next session."
	}
	switch feel {
	case "easy":
		return "Felt easy. Time to nudge the weights up next session."
	case "hard":
		return "Tough one. Recover well, the adaptation happens between sessions."
	default:
		return "Session done. Consistency beats intensity."
	}
}
