package service

import (
	"strings"
	"testing"
)

func TestParseWorkoutPlanTextDays(t *testing.T) {
	input := strings.Join([]string{
		"Push Pull Legs",
		"Day 1 - Push",
		"- Bench Press 3x12",
		"- Overhead Press 12x3",
		"Day 2: Pull",
		"1. Deadlift 5x5",
		"Day 3 - Legs",
		"Treadmill 20 mins",
		"Notes: hydrate well",
		"sleep 8 hours",
	}, "\n")

	parsed := ParseWorkoutPlanText(input)

	if parsed.Title != "Push Pull Legs" {
		t.Errorf("title = %q, want %q", parsed.Title, "Push Pull Legs")
	}
	if len(parsed.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(parsed.Days))
	}
	if parsed.Days[0].DayNumber != 1 || parsed.Days[0].Focus != "Push" {
		t.Errorf("day 1 = %d %q", parsed.Days[0].DayNumber, parsed.Days[0].Focus)
	}
	if parsed.Days[1].Focus != "Pull" {
		t.Errorf("day 2 focus = %q, want Pull", parsed.Days[1].Focus)
	}
	if got := len(parsed.Days[0].Exercises); got != 2 {
		t.Fatalf("day 1 has %d exercises, want 2", got)
	}
	if want := []string{"hydrate well", "sleep 8 hours"}; len(parsed.GlobalNotes) != 2 ||
		parsed.GlobalNotes[0] != want[0] || parsed.GlobalNotes[1] != want[1] {
		t.Errorf("global notes = %v, want %v", parsed.GlobalNotes, want)
	}
}

func TestParseWorkoutPlanTextSetsReps(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantSets int
		wantReps string
		wantRest int
	}{
		{"small then large", "Bench Press 3x12", "Bench Press", 3, "12", 90},
		{"large then small swaps", "Bench Press 12x3", "Bench Press", 3, "12", 90},
		{"both small keeps order", "Pause Squat 5x5", "Pause Squat", 5, "5", 90},
		{"both large keeps order", "Band Pull-Apart 15x20", "Band Pull-Apart", 15, "20", 90},
		{"boundary eight by eight", "Row 8x8", "Row", 8, "8", 90},
		{"with separator", "Incline Press - 4x10", "Incline Press", 4, "10", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseWorkoutPlanText("Day 1 - Test\n" + tt.line)
			if len(parsed.Days) != 1 || len(parsed.Days[0].Exercises) != 1 {
				t.Fatalf("unexpected structure: %+v", parsed)
			}
			ex := parsed.Days[0].Exercises[0]
			if ex.ExerciseName != tt.wantName {
				t.Errorf("name = %q, want %q", ex.ExerciseName, tt.wantName)
			}
			if ex.Sets != tt.wantSets {
				t.Errorf("sets = %d, want %d", ex.Sets, tt.wantSets)
			}
			if ex.Reps != tt.wantReps {
				t.Errorf("reps = %q, want %q", ex.Reps, tt.wantReps)
			}
			if ex.RestSec != tt.wantRest {
				t.Errorf("restSec = %d, want %d", ex.RestSec, tt.wantRest)
			}
		})
	}
}

func TestParseWorkoutPlanTextCardio(t *testing.T) {
	parsed := ParseWorkoutPlanText("Day 1 - Cardio\n- Treadmill 20 mins")
	ex := parsed.Days[0].Exercises[0]
	if ex.ExerciseName != "Treadmill" {
		t.Errorf("name = %q, want Treadmill", ex.ExerciseName)
	}
	if ex.Sets != 1 || ex.Reps != "20 mins" || ex.RestSec != 30 {
		t.Errorf("got sets=%d reps=%q rest=%d, want 1 / 20 mins / 30", ex.Sets, ex.Reps, ex.RestSec)
	}
	if ex.Notes != "cardio/conditioning" {
		t.Errorf("notes = %q", ex.Notes)
	}
}

func TestParseWorkoutPlanTextPlainLine(t *testing.T) {
	parsed := ParseWorkoutPlanText("Day 1 - Mobility\nCouch stretch hold")
	ex := parsed.Days[0].Exercises[0]
	if ex.ExerciseName != "Couch stretch hold" || ex.Sets != 1 || ex.Reps != "" || ex.RestSec != 60 {
		t.Errorf("plain line parsed as %+v", ex)
	}
}

func TestParseWorkoutPlanTextDefaults(t *testing.T) {
	parsed := ParseWorkoutPlanText("")
	if parsed.Title != "Workout Plan" {
		t.Errorf("empty input title = %q, want default", parsed.Title)
	}
	if len(parsed.Days) != 0 || len(parsed.GlobalNotes) != 0 {
		t.Errorf("empty input produced days=%d notes=%d", len(parsed.Days), len(parsed.GlobalNotes))
	}
}

func TestParseWorkoutPlanTextNotesBeforeDays(t *testing.T) {
	parsed := ParseWorkoutPlanText("My Block\nNote: deload week\nDay 1 - Full Body\n- Squat 3x10")
	if len(parsed.GlobalNotes) != 1 || parsed.GlobalNotes[0] != "deload week" {
		t.Errorf("global notes = %v", parsed.GlobalNotes)
	}
	if len(parsed.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(parsed.Days))
	}
	if parsed.Title != "My Block" {
		t.Errorf("title = %q", parsed.Title)
	}
}
