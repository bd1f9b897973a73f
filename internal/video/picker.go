package video

import (
	"strings"
)

const (
	keywordBoost  = 25.0
	shortBoost    = 20.0
	viewsDivisor  = 10000.0
	viewsScoreCap = 55.0
	shortMaxSec   = 60
)

var formKeywords = []string{"form", "tutorial", "technique", "tips"}

// SearchQuery builds the provider query for an exercise name.
func SearchQuery(exerciseName string) string {
	return exerciseName + " proper form shorts"
}

// Score rates a candidate: a flat boost for coaching keywords in the
// title, another for fitting the shorts length, and a view-count component
// capped so view farming cannot outrank an instructional clip.
func Score(c Candidate) float64 {
	score := 0.0
	title := strings.ToLower(c.Title)
	for _, kw := range formKeywords {
		if strings.Contains(title, kw) {
			score += keywordBoost
			break
		}
	}
	// An unresolved duration reads as zero and still gets the boost; the
	// provider already filtered for short clips.
	if c.DurationSec <= shortMaxSec {
		score += shortBoost
	}
	views := float64(c.Views) / viewsDivisor
	if views > viewsScoreCap {
		views = viewsScoreCap
	}
	score += views
	return score
}

// BestCandidate picks the highest-scoring candidate. Ties keep the earlier
// search result, which is the provider's own relevance order.
func BestCandidate(candidates []Candidate) (Candidate, float64, bool) {
	best := Candidate{}
	bestScore := -1.0
	for _, c := range candidates {
		if c.URL == "" {
			continue
		}
		if s := Score(c); s > bestScore {
			best = c
			bestScore = s
		}
	}
	if bestScore < 0 {
		return Candidate{}, 0, false
	}
	return best, bestScore, true
}

// FindAlternative picks the best candidate whose URL is not in exclude,
// used when a trainer rejects the current clip.
func FindAlternative(candidates []Candidate, exclude map[string]bool) (Candidate, float64, bool) {
	filtered := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if exclude[c.URL] {
			continue
		}
		filtered = append(filtered, c)
	}
	return BestCandidate(filtered)
}
