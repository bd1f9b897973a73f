// Package video finds demonstration clips for catalog exercises and keeps
// the video table topped up in the background.
package video

import (
	"context"
	"errors"
)

// Candidate is one search result before scoring.
type Candidate struct {
	URL         string
	Title       string
	Channel     string
	Thumbnail   string
	DurationSec int
	Views       int64
}

// Provider searches an external catalog for exercise demonstration clips.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int64) ([]Candidate, error)
}

var ErrNoCandidates = errors.New("no video candidates found")
