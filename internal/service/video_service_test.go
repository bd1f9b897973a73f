package service

import (
	"context"
	"errors"
	"testing"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
	"formbae/coach-app/internal/video"
)

type fakeProvider struct {
	candidates []video.Candidate
	err        error
}

func (f *fakeProvider) Search(ctx context.Context, query string, maxResults int64) ([]video.Candidate, error) {
	return f.candidates, f.err
}

func seedExercise(t *testing.T, tables *repository.Tables) string {
	t.Helper()
	ex := domain.Exercise{ExerciseID: "ex_bench1", Name: "Bench Press"}
	if err := tables.AppendExercises(context.Background(), []domain.Exercise{ex}); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return ex.ExerciseID
}

func TestPinManualVideoReplacesPreviousPin(t *testing.T) {
	tables := newTestTables(t)
	exID := seedExercise(t, tables)
	svc := NewVideoService(tables, nil)
	ctx := context.Background()

	first, err := svc.PinManualVideo(ctx, exID, "https://youtu.be/aaa", "Bench setup")
	if err != nil {
		t.Fatalf("first pin: %v", err)
	}
	if first.Score != 1000 || first.Source != domain.VideoSourceManual {
		t.Errorf("pinned entry = score %v source %q", first.Score, first.Source)
	}

	second, err := svc.PinManualVideo(ctx, exID, "https://youtu.be/bbb", "Better angle")
	if err != nil {
		t.Fatalf("second pin: %v", err)
	}
	if second.VideoID != first.VideoID {
		t.Errorf("re-pin minted a new row: %q vs %q", second.VideoID, first.VideoID)
	}

	videos, err := svc.VideosForExercise(ctx, exID)
	if err != nil {
		t.Fatalf("VideosForExercise: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("stored videos = %d, want 1", len(videos))
	}
	if videos[0].URL != "https://youtu.be/bbb" {
		t.Errorf("stored url = %q", videos[0].URL)
	}
}

func TestPinManualVideoValidation(t *testing.T) {
	tables := newTestTables(t)
	exID := seedExercise(t, tables)
	svc := NewVideoService(tables, nil)
	ctx := context.Background()

	if _, err := svc.PinManualVideo(ctx, exID, "   ", "t"); !errors.Is(err, ErrVideoURLRequired) {
		t.Errorf("blank url: err = %v", err)
	}
	if _, err := svc.PinManualVideo(ctx, "ex_nope", "https://youtu.be/x", ""); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("unknown exercise: err = %v", err)
	}
}

func TestFindAlternativeSkipsKnownURLs(t *testing.T) {
	tables := newTestTables(t)
	exID := seedExercise(t, tables)
	ctx := context.Background()

	if err := tables.AppendVideos(ctx, []domain.Video{{
		VideoID: "vid_old1", ExerciseID: exID,
		URL: "https://youtu.be/current", Source: domain.VideoSourceAPI,
	}}); err != nil {
		t.Fatalf("seed video: %v", err)
	}

	provider := &fakeProvider{candidates: []video.Candidate{
		{URL: "https://youtu.be/current", Title: "Bench Press proper form", Views: 500000, DurationSec: 45},
		{URL: "https://youtu.be/fresh", Title: "Bench Press technique", Views: 100000, DurationSec: 50},
	}}
	svc := NewVideoService(tables, provider)

	entry, err := svc.FindAlternative(ctx, exID)
	if err != nil {
		t.Fatalf("FindAlternative: %v", err)
	}
	if entry.URL != "https://youtu.be/fresh" {
		t.Errorf("alternative url = %q", entry.URL)
	}
	if entry.Source != domain.VideoSourceAPI {
		t.Errorf("source = %q", entry.Source)
	}

	videos, err := svc.VideosForExercise(ctx, exID)
	if err != nil {
		t.Fatalf("VideosForExercise: %v", err)
	}
	if len(videos) != 2 {
		t.Errorf("stored videos = %d, want 2", len(videos))
	}
}

func TestFindAlternativeErrors(t *testing.T) {
	tables := newTestTables(t)
	exID := seedExercise(t, tables)
	ctx := context.Background()

	if _, err := NewVideoService(tables, nil).FindAlternative(ctx, exID); !errors.Is(err, ErrNoVideoProvider) {
		t.Errorf("nil provider: err = %v", err)
	}

	if err := tables.AppendVideos(ctx, []domain.Video{{
		VideoID: "vid_only1", ExerciseID: exID, URL: "https://youtu.be/only",
	}}); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	provider := &fakeProvider{candidates: []video.Candidate{
		{URL: "https://youtu.be/only", Title: "Bench Press form"},
	}}
	if _, err := NewVideoService(tables, provider).FindAlternative(ctx, exID); !errors.Is(err, ErrNoAlternative) {
		t.Errorf("all excluded: err = %v", err)
	}

	if _, err := NewVideoService(tables, provider).FindAlternative(ctx, "ex_nope"); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("unknown exercise: err = %v", err)
	}
}
