package domain

import "time"

// VideoSource type for how a video row entered the catalog
type VideoSource string

const (
	VideoSourceAPI    VideoSource = "api"
	VideoSourceManual VideoSource = "manual"
)

// Video is a ranked candidate clip for an exercise. Many videos may
// reference one exercise; "best" is chosen by Score descending at lookup
// time, never persisted as a single pointer.
type Video struct {
	VideoID     string      `json:"videoId"`
	ExerciseID  string      `json:"exerciseId"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Channel     string      `json:"channel"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	Source      VideoSource `json:"source"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	Score       float64     `json:"score"`
	SearchQuery string      `json:"searchQuery,omitempty"`
}

// BestVideoFor picks the highest-scoring video for an exercise, or nil.
func BestVideoFor(videos []Video, exerciseID string) *Video {
	var best *Video
	for i := range videos {
		v := &videos[i]
		if v.ExerciseID != exerciseID || v.URL == "" {
			continue
		}
		if best == nil || v.Score > best.Score {
			best = v
		}
	}
	return best
}
