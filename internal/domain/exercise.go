package domain

import (
	"encoding/json"
	"strings"
)

// Exercise is a canonical catalog entry. Name matching for dedup is
// case/space-normalized, see NormalizeExerciseName.
type Exercise struct {
	ExerciseID      string `json:"exerciseId"`
	Name            string `json:"name"`
	PrimaryMuscle   string `json:"primaryMuscle"`
	Equipment       string `json:"equipment"`
	DefaultCuesJSON string `json:"defaultCuesJson"`
}

// NormalizeExerciseName trims, lowercases and collapses inner whitespace so
// "Barbell  Squat " and "barbell squat" dedupe to the same catalog entry.
func NormalizeExerciseName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// CuePack is the decoded form of an exercise's defaultCuesJson.
type CuePack struct {
	Cues     []string `json:"cues"`
	Mistakes []string `json:"mistakes"`
	Safety   string   `json:"safety"`
}

// DefaultCuePack returns the generic coaching cues used when an exercise has
// no stored pack or its JSON is malformed.
func DefaultCuePack() CuePack {
	return CuePack{
		Cues: []string{
			"Brace your core before each rep.",
			"Control the lowering phase; do not rush.",
			"Breathe out through the hardest part.",
		},
		Mistakes: []string{
			"Using momentum instead of muscle control.",
			"Going too heavy and shortening range of motion.",
			"Ignoring pain signals and forcing reps.",
		},
		Safety: "Stop the set for sharp pain, dizziness, or joint instability.",
	}
}

// ParseCuePack decodes a defaultCuesJson cell, capping lists at 3 entries
// and falling back to the default pack field-by-field.
func ParseCuePack(raw string) CuePack {
	def := DefaultCuePack()
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var parsed CuePack
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return def
	}
	pack := def
	if len(parsed.Cues) > 0 {
		pack.Cues = capAt3(parsed.Cues)
	}
	if len(parsed.Mistakes) > 0 {
		pack.Mistakes = capAt3(parsed.Mistakes)
	}
	if parsed.Safety != "" {
		pack.Safety = parsed.Safety
	}
	return pack
}

func capAt3(items []string) []string {
	if len(items) > 3 {
		return items[:3]
	}
	return items
}
