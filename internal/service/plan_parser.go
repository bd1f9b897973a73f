package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedPlanText is the structured form of a free-text workout plan.
type ParsedPlanText struct {
	Title       string      `json:"title"`
	GlobalNotes []string    `json:"globalNotes"`
	Days        []ParsedDay `json:"days"`
}

type ParsedDay struct {
	DayNumber int              `json:"dayNumber"`
	Focus     string           `json:"focus"`
	Notes     string           `json:"notes"`
	Exercises []ParsedExercise `json:"exercises"`
}

type ParsedExercise struct {
	ExerciseName string `json:"exerciseName"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	RestSec      int    `json:"restSec"`
	Notes        string `json:"notes"`
}

var (
	dayHeaderRe    = regexp.MustCompile(`(?i)^day\s*(\d+)\s*[-:]\s*(.+)$`)
	notePrefixRe   = regexp.MustCompile(`(?i)^notes?\s*[:-]`)
	noteCleanRe    = regexp.MustCompile(`(?i)^notes?\s*[:-]\s*`)
	bulletRe       = regexp.MustCompile(`^[-*]\s*`)
	orderPrefixRe  = regexp.MustCompile(`^\d+(?:\.\d+)?\s*[.)-]?\s*`)
	setsRepsRe     = regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+)`)
	minutesRe      = regexp.MustCompile(`(?i)(\d+)\s*mins?`)
	trailingSepsRe = regexp.MustCompile("[-:–]+\\s*$")
)

// ParseWorkoutPlanText converts unstructured multi-line workout text into a
// day/exercise model. It is total: malformed lines degrade to best-effort
// single-exercise entries and are never dropped.
//
// Scanning maintains a "current day" cursor. "Day N - focus" headers open a
// day; "Notes:" lines before any day, or after the day list, switch into a
// global-notes mode that swallows every following line; any other line
// before the first day is the plan title (last one wins).
func ParseWorkoutPlanText(input string) ParsedPlanText {
	parsed := ParsedPlanText{
		Title:       "Workout Plan",
		GlobalNotes: []string{},
		Days:        []ParsedDay{},
	}

	var currentDay *ParsedDay
	inGlobalNotes := false

	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}

		if m := dayHeaderRe.FindStringSubmatch(line); m != nil {
			inGlobalNotes = false
			num, _ := strconv.Atoi(m[1])
			parsed.Days = append(parsed.Days, ParsedDay{
				DayNumber: num,
				Focus:     strings.TrimSpace(m[2]),
				Exercises: []ParsedExercise{},
			})
			currentDay = &parsed.Days[len(parsed.Days)-1]
			continue
		}

		if inGlobalNotes {
			if notePrefixRe.MatchString(line) {
				if cleaned := cleanNoteLine(line); cleaned != "" {
					parsed.GlobalNotes = append(parsed.GlobalNotes, cleaned)
				}
			} else {
				parsed.GlobalNotes = append(parsed.GlobalNotes, line)
			}
			continue
		}

		if currentDay == nil {
			if notePrefixRe.MatchString(line) {
				if cleaned := cleanNoteLine(line); cleaned != "" {
					parsed.GlobalNotes = append(parsed.GlobalNotes, cleaned)
				}
				inGlobalNotes = true
			} else {
				parsed.Title = line
			}
			continue
		}

		// A "Notes:" block after the day list closes the day and becomes
		// plan-level notes.
		if notePrefixRe.MatchString(line) {
			if cleaned := cleanNoteLine(line); cleaned != "" {
				parsed.GlobalNotes = append(parsed.GlobalNotes, cleaned)
			}
			currentDay = nil
			inGlobalNotes = true
			continue
		}

		if ex, ok := parseExerciseLine(line); ok {
			currentDay.Exercises = append(currentDay.Exercises, ex)
		}
	}

	return parsed
}

func cleanNoteLine(line string) string {
	return strings.TrimSpace(noteCleanRe.ReplaceAllString(line, ""))
}

func parseExerciseLine(raw string) (ParsedExercise, bool) {
	line := bulletRe.ReplaceAllString(raw, "")
	line = orderPrefixRe.ReplaceAllString(line, "")
	line = strings.TrimSpace(line)
	if line == "" {
		return ParsedExercise{}, false
	}

	if loc := setsRepsRe.FindStringSubmatchIndex(line); loc != nil {
		a, _ := strconv.Atoi(line[loc[2]:loc[3]])
		b, _ := strconv.Atoi(line[loc[4]:loc[5]])
		sets, reps := inferSetsReps(a, b)
		name := strings.TrimSpace(trailingSepsRe.ReplaceAllString(line[:loc[0]], ""))
		if name == "" {
			name = line
		}
		return ParsedExercise{
			ExerciseName: name,
			Sets:         sets,
			Reps:         reps,
			RestSec:      90,
		}, true
	}

	if m := minutesRe.FindStringSubmatch(line); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		name := minutesRe.ReplaceAllString(line, "")
		name = strings.TrimSpace(trailingSepsRe.ReplaceAllString(name, ""))
		if name == "" {
			name = line
		}
		return ParsedExercise{
			ExerciseName: name,
			Sets:         1,
			Reps:         fmt.Sprintf("%d mins", minutes),
			RestSec:      30,
			Notes:        "cardio/conditioning",
		}, true
	}

	return ParsedExercise{
		ExerciseName: line,
		Sets:         1,
		RestSec:      60,
	}, true
}

// inferSetsReps decides which number of an "AxB" pair is sets. Small-then-
// large reads as sets x reps, large-then-small is swapped; the ambiguous
// cases (both small or both large) deliberately keep first=sets, which
// trainers rely on.
func inferSetsReps(a, b int) (int, string) {
	if a <= 8 && b >= 8 {
		return a, strconv.Itoa(b)
	}
	if b <= 8 && a >= 8 {
		return b, strconv.Itoa(a)
	}
	return a, strconv.Itoa(b)
}
