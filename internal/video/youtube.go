package video

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeProvider searches YouTube Data API v3 for short demonstration
// clips and resolves duration and view counts in a second call.
type YouTubeProvider struct {
	service *youtube.Service
}

func NewYouTubeProvider(ctx context.Context, apiKey string) (*YouTubeProvider, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	return &YouTubeProvider{service: service}, nil
}

func (p *YouTubeProvider) Search(ctx context.Context, query string, maxResults int64) ([]Candidate, error) {
	searchResp, err := p.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		VideoDuration("short").
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}
	if len(searchResp.Items) == 0 {
		return nil, ErrNoCandidates
	}

	ids := make([]string, 0, len(searchResp.Items))
	byID := make(map[string]Candidate, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		id := item.Id.VideoId
		ids = append(ids, id)
		thumbnail := ""
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		byID[id] = Candidate{
			URL:       "https://www.youtube.com/shorts/" + id,
			Title:     item.Snippet.Title,
			Channel:   item.Snippet.ChannelTitle,
			Thumbnail: thumbnail,
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCandidates
	}

	detailsResp, err := p.service.Videos.List([]string{"contentDetails", "statistics"}).
		Context(ctx).
		Id(ids...).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(detailsResp.Items))
	for _, item := range detailsResp.Items {
		c, ok := byID[item.Id]
		if !ok {
			continue
		}
		if item.ContentDetails != nil {
			c.DurationSec = parseISODuration(item.ContentDetails.Duration)
		}
		if item.Statistics != nil {
			c.Views = int64(item.Statistics.ViewCount)
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	return candidates, nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts the API's ISO 8601 duration ("PT1M3S") to
// seconds. Unparseable input reads as zero.
func parseISODuration(d string) int {
	m := isoDurationRe.FindStringSubmatch(strings.TrimSpace(d))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(zeroEmpty(m[1]))
	minutes, _ := strconv.Atoi(zeroEmpty(m[2]))
	seconds, _ := strconv.Atoi(zeroEmpty(m[3]))
	return hours*3600 + minutes*60 + seconds
}

func zeroEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
