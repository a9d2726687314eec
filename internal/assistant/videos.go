package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

const maxVideoResults = 5

// ErrNoVideos is returned when a search yields no embeddable videos.
var ErrNoVideos = errors.New("assistant: no videos found for the given keywords")

// Video is a single recommendation in a video search result.
type Video struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// VideoFinder searches for embeddable videos matching a query.
type VideoFinder interface {
	Search(ctx context.Context, query string) ([]Video, error)
}

// YouTubeFinder is a VideoFinder backed by the YouTube Data API.
type YouTubeFinder struct {
	service *youtube.Service
}

// NewYouTubeFinder creates a YouTube-backed video finder.
func NewYouTubeFinder(ctx context.Context, apiKey string) (*YouTubeFinder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: youtube api key is required")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create youtube client: %w", err)
	}
	return &YouTubeFinder{service: service}, nil
}

// Search returns up to 5 embeddable medium-length videos for the query.
// Results link to the embed URL so frontends can iframe them directly.
func (f *YouTubeFinder) Search(ctx context.Context, query string) ([]Video, error) {
	call := f.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		MaxResults(maxVideoResults).
		Type("video").
		VideoEmbeddable("true").
		VideoDuration("medium")

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("assistant: youtube search failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoVideos
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		video := Video{
			Title:       item.Snippet.Title,
			URL:         fmt.Sprintf("https://www.youtube.com/embed/%s", item.Id.VideoId),
			Description: item.Snippet.Description,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			video.Thumbnail = item.Snippet.Thumbnails.High.Url
		}
		videos = append(videos, video)
	}
	if len(videos) == 0 {
		return nil, ErrNoVideos
	}
	return videos, nil
}

var _ VideoFinder = (*YouTubeFinder)(nil)
