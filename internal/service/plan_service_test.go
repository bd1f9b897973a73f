package service

import (
	"context"
	"errors"
	"testing"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
	"formbae/coach-app/internal/sheets"
)

func newTestTables(t *testing.T) *repository.Tables {
	t.Helper()
	tables := repository.NewTables(sheets.NewMemoryStore())
	if err := tables.EnsureHeaders(context.Background()); err != nil {
		t.Fatalf("EnsureHeaders: %v", err)
	}
	return tables
}

func seedTrainerAndUser(t *testing.T, tables *repository.Tables) (trainerID, userID string) {
	t.Helper()
	ctx := context.Background()
	trainer := domain.User{
		UserID: "usr_trainer1", Role: domain.RoleTrainer, Name: "Coach",
		Mobile: "9000000001", AllowlistFlag: domain.AllowlistEnabled,
	}
	user := domain.User{
		UserID: "usr_member1", Role: domain.RoleUser, Name: "Member",
		Mobile: "9000000002", TrainerID: trainer.UserID, AllowlistFlag: domain.AllowlistEnabled,
	}
	if err := tables.AppendUser(ctx, trainer); err != nil {
		t.Fatalf("seed trainer: %v", err)
	}
	if err := tables.AppendUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return trainer.UserID, user.UserID
}

func TestSavePlanFromTextResolvesAndDedupes(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	ctx := context.Background()

	saved, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-31",
		Text: "Strength Block\n" +
			"Day 2 - Pull\n- Barbell Row 3x10\n" +
			"Day 1 - Push\n- Bench Press 3x12\n- bench  press 4x8\n",
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if saved.Plan.Title != "Strength Block" {
		t.Errorf("title = %q", saved.Plan.Title)
	}
	if saved.Plan.Status != domain.PlanActive {
		t.Errorf("status = %q, want active", saved.Plan.Status)
	}

	// Days come back sorted by day number regardless of input order.
	if len(saved.Days) != 2 || saved.Days[0].DayNumber != 1 || saved.Days[1].DayNumber != 2 {
		t.Fatalf("day order wrong: %+v", saved.Days)
	}

	// "Bench Press" and "bench  press" collapse to one catalog entry.
	exercises, err := tables.Exercises(ctx)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("catalog has %d entries, want 2 (bench press + barbell row): %+v", len(exercises), exercises)
	}
	day1 := saved.Days[0]
	if len(day1.Exercises) != 2 {
		t.Fatalf("day 1 exercises = %d", len(day1.Exercises))
	}
	if day1.Exercises[0].ExerciseID != day1.Exercises[1].ExerciseID {
		t.Errorf("duplicate names resolved to different ids: %q vs %q",
			day1.Exercises[0].ExerciseID, day1.Exercises[1].ExerciseID)
	}

	// Child rows round-trip through the store.
	days, err := tables.PlanDays(ctx)
	if err != nil {
		t.Fatalf("PlanDays: %v", err)
	}
	if len(days) != 2 {
		t.Errorf("stored days = %d", len(days))
	}
	links, err := tables.PlanDayExercises(ctx)
	if err != nil {
		t.Fatalf("PlanDayExercises: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("stored links = %d, want 3", len(links))
	}
}

func TestSavePlanReusesQueuedExplicitID(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	ctx := context.Background()

	// An explicit id with a new name queues a catalog row; a later mention
	// of the same name by itself must reuse that row, not mint another.
	saved, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		Title:         "Custom Block",
		WeekStartDate: "2026-08-31",
		Days: []PlanDayInput{
			{DayNumber: 1, Focus: "Full Body", Exercises: []PlanExerciseInput{
				{ExerciseID: "ex_custom", ExerciseName: "Mystery Move", Order: 1, Sets: 3, Reps: "10"},
				{ExerciseName: "mystery  move", Order: 2, Sets: 4, Reps: "8"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	exercises, err := tables.Exercises(ctx)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if len(exercises) != 1 {
		t.Fatalf("catalog has %d entries, want 1: %+v", len(exercises), exercises)
	}
	if exercises[0].ExerciseID != "ex_custom" {
		t.Errorf("catalog id = %q, want ex_custom", exercises[0].ExerciseID)
	}
	day := saved.Days[0]
	if day.Exercises[0].ExerciseID != "ex_custom" || day.Exercises[1].ExerciseID != "ex_custom" {
		t.Errorf("both mentions should resolve to ex_custom: %q vs %q",
			day.Exercises[0].ExerciseID, day.Exercises[1].ExerciseID)
	}
}

func TestSavePlanEnforcesSingleActive(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	ctx := context.Background()

	first, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-24",
		Text:          "Week A\nDay 1 - Full\n- Squat 3x10",
	})
	if err != nil {
		t.Fatalf("first SavePlan: %v", err)
	}
	second, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-31",
		Text:          "Week B\nDay 1 - Full\n- Deadlift 3x5",
	})
	if err != nil {
		t.Fatalf("second SavePlan: %v", err)
	}

	plans, err := tables.Plans(ctx)
	if err != nil {
		t.Fatalf("Plans: %v", err)
	}
	activeCount := 0
	for _, p := range plans {
		if p.Status == domain.PlanActive {
			activeCount++
			if p.PlanID != second.Plan.PlanID {
				t.Errorf("wrong plan active: %s", p.PlanID)
			}
		}
		if p.PlanID == first.Plan.PlanID && p.Status != domain.PlanDraft {
			t.Errorf("first plan status = %q, want draft", p.Status)
		}
	}
	if activeCount != 1 {
		t.Errorf("active plans = %d, want 1", activeCount)
	}
}

func TestSavePlanRejectsUnassignedTrainer(t *testing.T) {
	tables := newTestTables(t)
	_, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)

	_, err := svc.SavePlan(context.Background(), "usr_other_trainer", domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-31",
		Text:          "Plan\nDay 1 - A\n- Squat 3x10",
	})
	if !errors.Is(err, ErrUserNotAssigned) {
		t.Fatalf("err = %v, want ErrUserNotAssigned", err)
	}
}

func TestSavePlanValidation(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	ctx := context.Background()

	if _, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{UserID: userID}); !errors.Is(err, ErrPlanFieldsNeeded) {
		t.Errorf("missing week start: err = %v", err)
	}
	if _, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID: userID, WeekStartDate: "2026-08-31",
	}); !errors.Is(err, ErrPlanInputNeeded) {
		t.Errorf("no days, no text: err = %v", err)
	}
}

func TestDeletePlanCascades(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	workouts := NewWorkoutService(tables)
	ctx := context.Background()

	saved, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-31",
		Text:          "Plan\nDay 1 - A\n- Squat 3x10",
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	planID := saved.Plan.PlanID
	dayID := saved.Days[0].PlanDayID

	if _, err := workouts.LogWorkout(ctx, userID, LogWorkoutInput{
		Date: "2026-09-01", PlanID: planID, PlanDayID: dayID, Completed: true,
		Sets: []SetLogInput{{ExerciseID: saved.Days[0].Exercises[0].ExerciseID, Reps: 10, Weight: 60}},
	}); err != nil {
		t.Fatalf("LogWorkout: %v", err)
	}

	// Wrong user pairing must not delete anything.
	if err := svc.DeletePlan(ctx, trainerID, domain.RoleTrainer, "usr_wrong", planID); !errors.Is(err, ErrPlanUserMismatch) {
		t.Fatalf("mismatch err = %v", err)
	}
	// Another trainer cannot delete it either.
	if err := svc.DeletePlan(ctx, "usr_other", domain.RoleTrainer, userID, planID); !errors.Is(err, ErrPlanForbidden) {
		t.Fatalf("forbidden err = %v", err)
	}

	if err := svc.DeletePlan(ctx, trainerID, domain.RoleTrainer, userID, planID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}

	plans, _ := tables.Plans(ctx)
	days, _ := tables.PlanDays(ctx)
	links, _ := tables.PlanDayExercises(ctx)
	logs, _ := tables.WorkoutLogs(ctx)
	sets, _ := tables.SetLogs(ctx)
	if len(plans)+len(days)+len(links)+len(logs)+len(sets) != 0 {
		t.Errorf("cascade left rows: plans=%d days=%d links=%d logs=%d sets=%d",
			len(plans), len(days), len(links), len(logs), len(sets))
	}
}

func TestGetActivePlanForUserAssembly(t *testing.T) {
	tables := newTestTables(t)
	trainerID, userID := seedTrainerAndUser(t, tables)
	svc := NewPlanService(tables)
	ctx := context.Background()

	if _, err := svc.GetActivePlanForUser(ctx, userID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("no plan err = %v, want ErrPlanNotFound", err)
	}

	saved, err := svc.SavePlan(ctx, trainerID, domain.RoleTrainer, SavePlanInput{
		UserID:        userID,
		WeekStartDate: "2026-08-31",
		Text:          "Plan\nDay 1 - Push\n- Bench Press 3x12\n- Dips 3x10",
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	benchID := saved.Days[0].Exercises[0].ExerciseID
	if err := tables.AppendVideos(ctx, []domain.Video{
		{VideoID: "vid_low", ExerciseID: benchID, URL: "https://example.com/low", Score: 10, Source: domain.VideoSourceAPI},
		{VideoID: "vid_high", ExerciseID: benchID, URL: "https://example.com/high", Score: 80, Source: domain.VideoSourceAPI},
	}); err != nil {
		t.Fatalf("AppendVideos: %v", err)
	}

	view, err := svc.GetActivePlanForUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetActivePlanForUser: %v", err)
	}
	if len(view.Days) != 1 || len(view.Days[0].Exercises) != 2 {
		t.Fatalf("assembly shape wrong: %+v", view)
	}
	bench := view.Days[0].Exercises[0]
	if bench.ExerciseName != "Bench Press" {
		t.Errorf("exercise name = %q", bench.ExerciseName)
	}
	if bench.VideoURL != "https://example.com/high" {
		t.Errorf("video url = %q, want highest score", bench.VideoURL)
	}
	if len(bench.CuePack.Cues) == 0 {
		t.Errorf("cue pack is empty")
	}
}
