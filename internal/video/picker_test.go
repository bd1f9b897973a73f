package video

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want float64
	}{
		{
			"keyword and short and views",
			Candidate{Title: "Squat proper form", DurationSec: 45, Views: 100000},
			25 + 20 + 10,
		},
		{
			"keyword boost applies once",
			Candidate{Title: "Squat form tutorial tips", DurationSec: 45},
			25 + 20,
		},
		{
			"view score is capped",
			Candidate{Title: "random clip", DurationSec: 300, Views: 100_000_000},
			55,
		},
		{
			"no signals",
			Candidate{Title: "vlog", DurationSec: 300},
			0,
		},
		{
			"exactly sixty seconds counts as short",
			Candidate{Title: "x", DurationSec: 60},
			20,
		},
		{
			"unknown duration still counts as short",
			Candidate{Title: "x", DurationSec: 0},
			20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBestCandidate(t *testing.T) {
	candidates := []Candidate{
		{URL: "https://a", Title: "random", DurationSec: 300, Views: 50000},            // 5
		{URL: "https://b", Title: "squat form", DurationSec: 45, Views: 10000},         // 46
		{URL: "", Title: "squat form tutorial", DurationSec: 30, Views: 10_000_000},    // skipped, no URL
	}
	best, score, ok := BestCandidate(candidates)
	if !ok || best.URL != "https://b" {
		t.Fatalf("best = %+v ok=%v", best, ok)
	}
	if score != 46 {
		t.Errorf("score = %v, want 46", score)
	}

	if _, _, ok := BestCandidate(nil); ok {
		t.Errorf("empty input should report no candidate")
	}
}

func TestFindAlternativeExcludes(t *testing.T) {
	candidates := []Candidate{
		{URL: "https://current", Title: "squat form", DurationSec: 45, Views: 500000},
		{URL: "https://next", Title: "squat technique", DurationSec: 50, Views: 20000},
	}
	alt, _, ok := FindAlternative(candidates, map[string]bool{"https://current": true})
	if !ok || alt.URL != "https://next" {
		t.Errorf("alternative = %+v ok=%v", alt, ok)
	}

	_, _, ok = FindAlternative(candidates, map[string]bool{
		"https://current": true, "https://next": true,
	})
	if ok {
		t.Errorf("all excluded should report no candidate")
	}
}

func TestSearchQuery(t *testing.T) {
	if got := SearchQuery("Bulgarian Split Squat"); got != "Bulgarian Split Squat proper form shorts" {
		t.Errorf("query = %q", got)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT1M3S", 63},
		{"PT45S", 45},
		{"PT1H2M3S", 3723},
		{"PT2M", 120},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseISODuration(tt.in); got != tt.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
