package video

import (
	"context"
	"log"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// ExerciseRef names one exercise the backfiller should find a clip for.
type ExerciseRef struct {
	ExerciseID   string
	ExerciseName string
}

// Backfiller walks exercise refs after a plan save and fetches a clip for
// every exercise that has none. It runs outside the request path; failures
// are logged and swallowed so a quota blip never breaks a save.
type Backfiller struct {
	tables     *repository.Tables
	provider   Provider
	itemDelay  time.Duration
	batchDelay time.Duration
	batchSize  int
	maxResults int64
	now        func() time.Time
}

func NewBackfiller(tables *repository.Tables, provider Provider) *Backfiller {
	return &Backfiller{
		tables:     tables,
		provider:   provider,
		itemDelay:  450 * time.Millisecond,
		batchDelay: 500 * time.Millisecond,
		batchSize:  10,
		maxResults: 10,
		now:        time.Now,
	}
}

// Run processes the refs sequentially with small delays between provider
// calls to stay under quota. Rows are appended in batches. Safe to call
// concurrently from multiple saves only in the append-lost-update sense
// every writer of the store shares.
func (b *Backfiller) Run(ctx context.Context, refs []ExerciseRef) {
	if b.provider == nil || len(refs) == 0 {
		return
	}

	seen := make(map[string]bool, len(refs))
	deduped := refs[:0]
	for _, ref := range refs {
		if ref.ExerciseID == "" || seen[ref.ExerciseID] {
			continue
		}
		seen[ref.ExerciseID] = true
		deduped = append(deduped, ref)
	}

	existing, err := b.tables.Videos(ctx)
	if err != nil {
		log.Printf("video backfill: reading videos: %v", err)
		return
	}
	hasVideo := make(map[string]bool)
	for _, v := range existing {
		if v.URL != "" {
			hasVideo[v.ExerciseID] = true
		}
	}

	exercises, err := b.tables.Exercises(ctx)
	if err != nil {
		log.Printf("video backfill: reading exercises: %v", err)
		return
	}
	nameByID := make(map[string]string, len(exercises))
	for _, e := range exercises {
		nameByID[e.ExerciseID] = e.Name
	}

	var batch []domain.Video
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := b.tables.AppendVideos(ctx, batch); err != nil {
			log.Printf("video backfill: appending %d rows: %v", len(batch), err)
		}
		batch = batch[:0]
	}

	for _, ref := range deduped {
		if ctx.Err() != nil {
			break
		}
		if hasVideo[ref.ExerciseID] {
			continue
		}
		name := ref.ExerciseName
		if name == "" {
			name = nameByID[ref.ExerciseID]
		}
		if name == "" || name == "Unspecified Exercise" {
			continue
		}

		query := SearchQuery(name)
		candidates, err := b.provider.Search(ctx, query, b.maxResults)
		if err != nil {
			log.Printf("video backfill: search %q: %v", name, err)
			time.Sleep(b.itemDelay)
			continue
		}
		best, score, ok := BestCandidate(candidates)
		if !ok {
			time.Sleep(b.itemDelay)
			continue
		}

		batch = append(batch, domain.Video{
			VideoID:     repository.NewID("vid"),
			ExerciseID:  ref.ExerciseID,
			URL:         best.URL,
			Title:       best.Title,
			Channel:     best.Channel,
			Thumbnail:   best.Thumbnail,
			Source:      domain.VideoSourceAPI,
			FetchedAt:   b.now(),
			Score:       score,
			SearchQuery: query,
		})
		hasVideo[ref.ExerciseID] = true

		if len(batch) >= b.batchSize {
			flush()
			time.Sleep(b.batchDelay)
		} else {
			time.Sleep(b.itemDelay)
		}
	}
	flush()
}
