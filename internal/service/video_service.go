package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
	"formbae/coach-app/internal/video"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrVideoURLRequired = errors.New("video url is required")
	ErrNoVideoProvider  = errors.New("video search is not configured")
	ErrNoAlternative    = errors.New("no alternative video found")
)

// --- Service Interface ---
type VideoService interface {
	PinManualVideo(ctx context.Context, exerciseID, url, title string) (*domain.Video, error)
	FindAlternative(ctx context.Context, exerciseID string) (*domain.Video, error)
	VideosForExercise(ctx context.Context, exerciseID string) ([]domain.Video, error)
}

type videoService struct {
	tables   *repository.Tables
	provider video.Provider
	now      func() time.Time
}

func NewVideoService(tables *repository.Tables, provider video.Provider) VideoService {
	return &videoService{tables: tables, provider: provider, now: time.Now}
}

// PinManualVideo stores a trainer-chosen clip for an exercise. Manual
// entries score above anything the picker produces, so they win best-video
// selection from then on.
func (s *videoService) PinManualVideo(ctx context.Context, exerciseID, url, title string) (*domain.Video, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrVideoURLRequired
	}
	if err := s.ensureExercise(ctx, exerciseID); err != nil {
		return nil, err
	}
	entry := domain.Video{
		VideoID:    repository.NewID("vid"),
		ExerciseID: exerciseID,
		URL:        url,
		Title:      strings.TrimSpace(title),
		Source:     domain.VideoSourceManual,
		FetchedAt:  s.now(),
		Score:      1000,
	}

	// An exercise keeps at most one pinned clip; re-pinning replaces it.
	videos, err := s.tables.Videos(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		if v.ExerciseID == exerciseID && v.Source == domain.VideoSourceManual {
			entry.VideoID = v.VideoID
			break
		}
	}
	if err := s.tables.UpsertVideo(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindAlternative re-searches the provider and stores the best candidate
// whose URL the exercise does not already have.
func (s *videoService) FindAlternative(ctx context.Context, exerciseID string) (*domain.Video, error) {
	if s.provider == nil {
		return nil, ErrNoVideoProvider
	}
	exercises, err := s.tables.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	var name string
	for _, e := range exercises {
		if e.ExerciseID == exerciseID {
			name = e.Name
			break
		}
	}
	if name == "" {
		return nil, ErrExerciseNotFound
	}

	videos, err := s.tables.Videos(ctx)
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]bool)
	for _, v := range videos {
		if v.ExerciseID == exerciseID && v.URL != "" {
			exclude[v.URL] = true
		}
	}

	query := video.SearchQuery(name)
	candidates, err := s.provider.Search(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	best, score, ok := video.FindAlternative(candidates, exclude)
	if !ok {
		return nil, ErrNoAlternative
	}

	entry := domain.Video{
		VideoID:     repository.NewID("vid"),
		ExerciseID:  exerciseID,
		URL:         best.URL,
		Title:       best.Title,
		Channel:     best.Channel,
		Thumbnail:   best.Thumbnail,
		Source:      domain.VideoSourceAPI,
		FetchedAt:   s.now(),
		Score:       score,
		SearchQuery: query,
	}
	if err := s.tables.AppendVideos(ctx, []domain.Video{entry}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *videoService) VideosForExercise(ctx context.Context, exerciseID string) ([]domain.Video, error) {
	videos, err := s.tables.Videos(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Video
	for _, v := range videos {
		if v.ExerciseID == exerciseID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *videoService) ensureExercise(ctx context.Context, exerciseID string) error {
	exercises, err := s.tables.Exercises(ctx)
	if err != nil {
		return err
	}
	for _, e := range exercises {
		if e.ExerciseID == exerciseID {
			return nil
		}
	}
	return ErrExerciseNotFound
}
