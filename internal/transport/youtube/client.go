// Package youtube wraps the YouTube Data API v3 search endpoint for
// educational video lookup.
package youtube

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/edusolve/solvex/internal/domain"
)

// Appended to every query to bias results toward teaching content.
const querySuffix = " tutorial explanation"

// Client searches YouTube for embeddable tutorial videos.
type Client struct {
	service    *yt.Service
	maxResults int64
	logger     *zap.Logger
}

// NewClient builds a client. With an empty API key the client is created
// but reports itself unavailable, letting callers fall back gracefully.
func NewClient(ctx context.Context, apiKey string, maxResults int, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxResults <= 0 {
		maxResults = 3
	}
	c := &Client{maxResults: int64(maxResults), logger: logger}
	if apiKey == "" {
		return c, nil
	}
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	c.service = svc
	return c, nil
}

func (c *Client) Available() bool { return c.service != nil }

func (c *Client) Search(ctx context.Context, query string) ([]domain.VideoHit, error) {
	if c.service == nil {
		return nil, fmt.Errorf("youtube client not configured")
	}

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query + querySuffix).
		Type("video").
		MaxResults(c.maxResults).
		SafeSearch("strict").
		VideoEmbeddable("true").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	hits := make([]domain.VideoHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		hit := domain.VideoHit{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			URL:          "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			EmbedURL:     "https://www.youtube.com/embed/" + item.Id.VideoId,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			hit.Thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
