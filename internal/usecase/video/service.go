// Package video looks up tutorial videos for a question. Lookup never fails
// the pipeline; a missing or broken backend degrades to canned suggestions.
package video

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

type Service struct {
	finder Finder
	logger *zap.Logger
}

func New(finder Finder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{finder: finder, logger: logger}
}

// Lookup returns tutorial videos for the query.
func (s *Service) Lookup(ctx context.Context, query string) []domain.VideoHit {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("video").Observe(time.Since(start).Seconds())
	}()

	if s.finder == nil || !s.finder.Available() {
		return mockVideos(query)
	}

	hits, err := s.finder.Search(ctx, query)
	if err != nil {
		metrics.ExternalRequestsTotal.WithLabelValues("youtube", "error").Inc()
		s.logger.Warn("video lookup failed, serving fallback suggestions", zap.Error(err))
		return mockVideos(query)
	}
	metrics.ExternalRequestsTotal.WithLabelValues("youtube", "ok").Inc()
	return hits
}

func mockVideos(query string) []domain.VideoHit {
	return []domain.VideoHit{
		{
			VideoID:      "mock-video-1",
			Title:        "Tutorial: " + query,
			Description:  "A worked walkthrough of this type of problem.",
			ChannelTitle: "Solvex Samples",
			URL:          "https://www.youtube.com/results?search_query=" + query,
			EmbedURL:     "https://www.youtube.com/embed/mock-video-1",
		},
		{
			VideoID:      "mock-video-2",
			Title:        query + " explained step by step",
			Description:  "Concept review with solved examples.",
			ChannelTitle: "Solvex Samples",
			URL:          "https://www.youtube.com/results?search_query=" + query,
			EmbedURL:     "https://www.youtube.com/embed/mock-video-2",
		},
	}
}
