// Package search queries web search providers, deduplicates the hits and
// ranks them by domain trust.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/cache"
	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

const mockWarning = "Using mock search results. Configure a search API key for live results."

// Outcome is the result of one search pass, ready for the response payload.
type Outcome struct {
	Results      []domain.SearchResult
	TrustedCount int
	Provider     string
	Warning      string
	FromCache    bool
}

// Service runs searches against the configured providers with a short
// per-query timeout and a result cache. Search never fails the pipeline;
// when every provider errors the outcome is simply empty.
type Service struct {
	providers []Provider
	cache     cache.Cache
	keyPrefix string
	cacheTTL  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

func New(providers []Provider, c cache.Cache, keyPrefix string, ttl, timeout time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		providers: providers,
		cache:     c,
		keyPrefix: keyPrefix,
		cacheTTL:  ttl,
		timeout:   timeout,
		logger:    logger,
	}
}

type cachedOutcome struct {
	Results      []domain.SearchResult `json:"results"`
	TrustedCount int                   `json:"trusted_count"`
	Provider     string                `json:"provider"`
	Warning      string                `json:"warning,omitempty"`
}

func (s *Service) cacheKey(query string, count int) string {
	return fmt.Sprintf("%ssearch:%s:%d", s.keyPrefix, query, count)
}

// Search runs one query across the provider chain.
func (s *Service) Search(ctx context.Context, query string, count int) Outcome {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	key := s.cacheKey(query, count)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var c cachedOutcome
		if err := json.Unmarshal(raw, &c); err == nil {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			return Outcome{
				Results:      c.Results,
				TrustedCount: c.TrustedCount,
				Provider:     c.Provider,
				Warning:      c.Warning,
				FromCache:    true,
			}
		}
	}
	metrics.SearchCacheTotal.WithLabelValues("miss").Inc()

	out := s.searchProviders(ctx, query, count)
	if len(out.Results) > 0 || out.Provider != "" {
		if raw, err := json.Marshal(cachedOutcome{
			Results:      out.Results,
			TrustedCount: out.TrustedCount,
			Provider:     out.Provider,
			Warning:      out.Warning,
		}); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				s.logger.Warn("search cache write failed", zap.Error(err))
			}
		}
	}
	return out
}

func (s *Service) searchProviders(ctx context.Context, query string, count int) Outcome {
	for _, p := range s.providers {
		if !p.Available() {
			continue
		}

		pctx, cancel := context.WithTimeout(ctx, s.timeout)
		results, err := p.Search(pctx, query, count)
		cancel()

		if err != nil {
			metrics.ExternalRequestsTotal.WithLabelValues(p.Name(), "error").Inc()
			s.logger.Warn("search provider failed",
				zap.String("provider", p.Name()), zap.Error(err))
			continue
		}
		metrics.ExternalRequestsTotal.WithLabelValues(p.Name(), "ok").Inc()

		results = Rank(Annotate(Dedupe(results)))
		out := Outcome{
			Results:      results,
			TrustedCount: TrustedCount(results),
			Provider:     p.Name(),
		}
		if p.Name() == "mock" {
			out.Warning = mockWarning
		}
		return out
	}

	s.logger.Warn("all search providers failed", zap.String("query", query))
	return Outcome{}
}
