package service

import (
	"context"
	"testing"

	"formbae/coach-app/internal/domain"
)

func TestGetUserProgressAdherence(t *testing.T) {
	tables := newTestTables(t)
	svc := NewProgressService(tables)
	ctx := context.Background()
	const userID = "usr_member1"

	// Four distinct day-sessions, three completed: 75%.
	rows := []domain.WorkoutLog{
		{LogID: "log_1", UserID: userID, Date: "2026-09-01", PlanID: "p1", PlanDayID: "d1", CompletedFlag: true},
		{LogID: "log_2", UserID: userID, Date: "2026-09-02", PlanID: "p1", PlanDayID: "d2", Notes: "completion:day", CompletedFlag: true},
		{LogID: "log_3", UserID: userID, Date: "2026-09-03", PlanID: "p1", PlanDayID: "d3", CompletedFlag: false},
		{LogID: "log_4", UserID: userID, Date: "2026-09-04", PlanID: "p1", PlanDayID: "d1", CompletedFlag: true},
		// Extra row in an already-counted group must not double count.
		{LogID: "log_5", UserID: userID, Date: "2026-09-01", PlanID: "p1", PlanDayID: "d1", Notes: "felt good"},
		// Another user's rows stay out entirely.
		{LogID: "log_6", UserID: "usr_other", Date: "2026-09-01", PlanID: "p1", PlanDayID: "d1", CompletedFlag: false},
	}
	for _, r := range rows {
		if err := tables.AppendWorkoutLog(ctx, r); err != nil {
			t.Fatalf("AppendWorkoutLog: %v", err)
		}
	}

	progress, err := svc.GetUserProgress(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if progress.AdherencePct != 75 {
		t.Errorf("adherence = %d, want 75", progress.AdherencePct)
	}
	if len(progress.CompletionHistory) != 4 {
		t.Errorf("history groups = %d, want 4", len(progress.CompletionHistory))
	}
	// History comes back newest first.
	if progress.CompletionHistory[0].Date != "2026-09-04" {
		t.Errorf("history[0].Date = %q", progress.CompletionHistory[0].Date)
	}
	if progress.Nudge != NudgeByAdherence(75) {
		t.Errorf("nudge mismatch")
	}
}

func TestGetUserProgressStrength(t *testing.T) {
	tables := newTestTables(t)
	svc := NewProgressService(tables)
	ctx := context.Background()
	const userID = "usr_member1"

	if err := tables.AppendExercises(ctx, []domain.Exercise{
		{ExerciseID: "ex_bench", Name: "Bench Press"},
	}); err != nil {
		t.Fatalf("AppendExercises: %v", err)
	}
	workoutLogs := []domain.WorkoutLog{
		{LogID: "log_1", UserID: userID, Date: "2026-09-01", PlanID: "p1", PlanDayID: "d1"},
		{LogID: "log_2", UserID: userID, Date: "2026-09-08", PlanID: "p1", PlanDayID: "d1"},
	}
	for _, l := range workoutLogs {
		if err := tables.AppendWorkoutLog(ctx, l); err != nil {
			t.Fatalf("AppendWorkoutLog: %v", err)
		}
	}
	if err := tables.AppendSetLogs(ctx, []domain.SetLog{
		{LogID: "log_1", ExerciseID: "ex_bench", SetNumber: 1, Reps: 10, Weight: 60},
		{LogID: "log_1", ExerciseID: "ex_bench", SetNumber: 2, Reps: 5, Weight: 80},
		{LogID: "log_2", ExerciseID: "ex_bench", SetNumber: 1, Reps: 8, Weight: 82},
		{LogID: "log_2", ExerciseID: "ex_bench", SetNumber: 2, Reps: 3, Weight: 100},
	}); err != nil {
		t.Fatalf("AppendSetLogs: %v", err)
	}

	progress, err := svc.GetUserProgress(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	// One point per exercise across all dates: the single best weight*reps
	// set ever logged. 82*8=656 beats 600, 400 and 300.
	if len(progress.Strength) != 1 {
		t.Fatalf("strength points = %d, want 1", len(progress.Strength))
	}
	point := progress.Strength[0]
	if point.BestLoad != 656 {
		t.Errorf("best load = %v, want 656", point.BestLoad)
	}
	if point.Date != "2026-09-08" {
		t.Errorf("best set date = %q, want 2026-09-08", point.Date)
	}
	if point.ExerciseName != "Bench Press" {
		t.Errorf("exercise name = %q", point.ExerciseName)
	}
}

func TestGetUserProgressBodyTrend(t *testing.T) {
	tables := newTestTables(t)
	svc := NewProgressService(tables)
	ctx := context.Background()

	entries := []domain.BodyLog{
		{EntryID: "b2", UserID: "usr_member1", Date: "2026-09-15", Weight: 79},
		{EntryID: "b1", UserID: "usr_member1", Date: "2026-09-01", Weight: 81},
		{EntryID: "b3", UserID: "usr_other", Date: "2026-09-10", Weight: 99},
	}
	for _, e := range entries {
		if err := tables.AppendBodyLog(ctx, e); err != nil {
			t.Fatalf("AppendBodyLog: %v", err)
		}
	}

	progress, err := svc.GetUserProgress(ctx, "usr_member1")
	if err != nil {
		t.Fatalf("GetUserProgress: %v", err)
	}
	if len(progress.BodyTrend) != 2 {
		t.Fatalf("trend entries = %d, want 2", len(progress.BodyTrend))
	}
	// Trend is oldest first for charting.
	if progress.BodyTrend[0].Date != "2026-09-01" || progress.BodyTrend[1].Date != "2026-09-15" {
		t.Errorf("trend order: %v, %v", progress.BodyTrend[0].Date, progress.BodyTrend[1].Date)
	}
}

func TestNudgeByAdherence(t *testing.T) {
	if NudgeByAdherence(85) == NudgeByAdherence(60) {
		t.Errorf("85 and 60 brackets should differ")
	}
	if NudgeByAdherence(60) == NudgeByAdherence(10) {
		t.Errorf("60 and 10 brackets should differ")
	}
	if NudgeByAdherence(100) != NudgeByAdherence(85) {
		t.Errorf("85 is the top bracket boundary")
	}
}

func TestEffortFeedback(t *testing.T) {
	if EffortFeedback("easy", false) == EffortFeedback("hard", false) {
		t.Errorf("easy and hard should differ")
	}
	// Pain wins over feel.
	if EffortFeedback("easy", true) != EffortFeedback("hard", true) {
		t.Errorf("pain response should ignore feel")
	}
}
