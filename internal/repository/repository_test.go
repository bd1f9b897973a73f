package repository

import (
	"context"
	"testing"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/sheets"
)

func TestEnsureHeadersWritesEveryTable(t *testing.T) {
	store := sheets.NewMemoryStore()
	tables := NewTables(store)
	ctx := context.Background()

	if err := tables.EnsureHeaders(ctx); err != nil {
		t.Fatalf("EnsureHeaders: %v", err)
	}
	for _, table := range AllTables {
		rows, err := store.ReadTable(ctx, table)
		if err != nil {
			t.Fatalf("ReadTable(%s): %v", table, err)
		}
		if len(rows) != 1 {
			t.Errorf("%s has %d rows, want header only", table, len(rows))
			continue
		}
		if len(rows[0]) != len(Headers[table]) {
			t.Errorf("%s header width = %d, want %d", table, len(rows[0]), len(Headers[table]))
		}
	}

	// Running again must not duplicate headers.
	if err := tables.EnsureHeaders(ctx); err != nil {
		t.Fatalf("second EnsureHeaders: %v", err)
	}
	rows, _ := store.ReadTable(ctx, TableUsers)
	if len(rows) != 1 {
		t.Errorf("second run left %d rows", len(rows))
	}
}

func TestUserRoundTripAndUpsert(t *testing.T) {
	tables := NewTables(sheets.NewMemoryStore())
	ctx := context.Background()

	created := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	user := domain.User{
		UserID: "usr_1", Role: domain.RoleTrainer, Name: "Coach",
		Mobile: "9876543210", CreatedAt: created,
		AllowlistFlag: domain.AllowlistEnabled, SecretHash: "x",
	}
	if err := tables.AppendUser(ctx, user); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}

	users, err := tables.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d", len(users))
	}
	got := users[0]
	if got.UserID != user.UserID || got.Role != user.Role || got.Mobile != user.Mobile ||
		!got.CreatedAt.Equal(created) || got.SecretHash != "x" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	user.Name = "Head Coach"
	if err := tables.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	users, _ = tables.Users(ctx)
	if len(users) != 1 || users[0].Name != "Head Coach" {
		t.Errorf("upsert did not replace in place: %+v", users)
	}

	user.UserID = "usr_2"
	if err := tables.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser new: %v", err)
	}
	users, _ = tables.Users(ctx)
	if len(users) != 2 {
		t.Errorf("upsert of new key did not append: %d rows", len(users))
	}
}

func TestExerciseUpsert(t *testing.T) {
	tables := NewTables(sheets.NewMemoryStore())
	ctx := context.Background()

	if err := tables.EnsureHeaders(ctx); err != nil {
		t.Fatalf("EnsureHeaders: %v", err)
	}
	ex := domain.Exercise{ExerciseID: "ex_1", Name: "Goblet Squat", Equipment: "dumbbell"}
	if err := tables.UpsertExercise(ctx, ex); err != nil {
		t.Fatalf("UpsertExercise: %v", err)
	}
	ex.PrimaryMuscle = "quads"
	if err := tables.UpsertExercise(ctx, ex); err != nil {
		t.Fatalf("UpsertExercise update: %v", err)
	}

	exercises, err := tables.Exercises(ctx)
	if err != nil {
		t.Fatalf("Exercises: %v", err)
	}
	if len(exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(exercises))
	}
	if exercises[0].PrimaryMuscle != "quads" || exercises[0].Equipment != "dumbbell" {
		t.Errorf("upsert result: %+v", exercises[0])
	}
}

func TestShortRowsArePadded(t *testing.T) {
	store := sheets.NewMemoryStore()
	tables := NewTables(store)
	ctx := context.Background()

	if err := tables.EnsureHeaders(ctx); err != nil {
		t.Fatalf("EnsureHeaders: %v", err)
	}
	// A manually edited sheet can hold rows narrower than the header.
	if err := store.AppendRows(ctx, TableUsers, [][]string{{"usr_1", "user", "Asha"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	users, err := tables.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d", len(users))
	}
	if users[0].UserID != "usr_1" || users[0].Name != "Asha" {
		t.Errorf("short row parsed as %+v", users[0])
	}
	if users[0].Mobile != "" || users[0].SecretHash != "" {
		t.Errorf("missing cells should read empty: %+v", users[0])
	}
}

func TestPlanRowCoercions(t *testing.T) {
	tables := NewTables(sheets.NewMemoryStore())
	ctx := context.Background()

	link := domain.PlanDayExercise{
		PlanDayID: "pday_1", ExerciseID: "ex_1", Order: 2, Sets: 4,
		Reps: "8-10", RestSec: 90, VideoURL: "https://example.com/v",
	}
	if err := tables.ReplacePlanDayExercises(ctx, []domain.PlanDayExercise{link}); err != nil {
		t.Fatalf("ReplacePlanDayExercises: %v", err)
	}
	links, err := tables.PlanDayExercises(ctx)
	if err != nil {
		t.Fatalf("PlanDayExercises: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d", len(links))
	}
	if links[0] != link {
		t.Errorf("coercion mismatch:\n got %+v\nwant %+v", links[0], link)
	}
}

func TestNewIDPrefix(t *testing.T) {
	id := NewID("plan")
	if len(id) != len("plan_")+8 {
		t.Errorf("id %q has unexpected length", id)
	}
	if id[:5] != "plan_" {
		t.Errorf("id %q missing prefix", id)
	}
	if NewID("plan") == id {
		t.Errorf("ids collide")
	}
}
