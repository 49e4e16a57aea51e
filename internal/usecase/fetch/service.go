// Package fetch retrieves solution pages concurrently and extracts their
// readable text. The batch is bounded both per URL and as a whole so a slow
// site can never stall the pipeline.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

const userAgent = "Mozilla/5.0 (compatible; solvex/1.0)"

// Config bounds the fetch batch.
type Config struct {
	MaxConcurrent int
	MaxURLs       int
	PerURLTimeout time.Duration
	BatchTimeout  time.Duration
	MaxContentLen int
}

// Service fetches pages with a bounded worker pool.
type Service struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Service {
	if cfg.MaxConcurrent <= 0 || cfg.MaxConcurrent > 5 {
		cfg.MaxConcurrent = 5
	}
	if cfg.MaxURLs <= 0 {
		cfg.MaxURLs = 3
	}
	if cfg.PerURLTimeout <= 0 {
		cfg.PerURLTimeout = 1200 * time.Millisecond
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 2500 * time.Millisecond
	}
	if cfg.MaxContentLen <= 0 {
		cfg.MaxContentLen = 800
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.PerURLTimeout},
		logger:     logger,
	}
}

// FetchAll retrieves up to MaxURLs pages in parallel. The returned slice has
// one entry per attempted URL, in input order, with failures recorded inline.
func (s *Service) FetchAll(ctx context.Context, urls []string) []domain.FetchedPage {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	}()

	if len(urls) > s.cfg.MaxURLs {
		urls = urls[:s.cfg.MaxURLs]
	}
	if len(urls) == 0 {
		return nil
	}

	batchCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchTimeout)
	defer cancel()

	type indexed struct {
		i    int
		page domain.FetchedPage
	}
	out := make(chan indexed, len(urls))
	jobs := make(chan int)

	workers := s.cfg.MaxConcurrent
	if len(urls) < workers {
		workers = len(urls)
	}

	// out is buffered for the whole batch, so workers never block on send
	// and can be abandoned once the batch deadline passes.
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				out <- indexed{i: i, page: s.fetchOne(batchCtx, urls[i])}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range urls {
			select {
			case jobs <- i:
			case <-batchCtx.Done():
				return
			}
		}
	}()

	pages := make([]domain.FetchedPage, len(urls))
	filled := make([]bool, len(urls))
	received := 0
	for received < len(urls) {
		select {
		case r := <-out:
			pages[r.i] = r.page
			filled[r.i] = true
			received++
		case <-batchCtx.Done():
			received = len(urls)
		}
	}

	for i := range pages {
		if !filled[i] {
			pages[i] = domain.FailedPage(urls[i], "fetch timed out")
		}
	}
	return pages
}

func (s *Service) fetchOne(ctx context.Context, rawURL string) domain.FetchedPage {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.PerURLTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.FailedPage(rawURL, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.ExternalRequestsTotal.WithLabelValues("fetch", "error").Inc()
		return domain.FailedPage(rawURL, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ExternalRequestsTotal.WithLabelValues("fetch", "error").Inc()
		return domain.FailedPage(rawURL, fmt.Sprintf("status %d", resp.StatusCode))
	}
	metrics.ExternalRequestsTotal.WithLabelValues("fetch", "ok").Inc()

	title, content, err := extractContent(resp.Body, s.cfg.MaxContentLen)
	if err != nil {
		return domain.FailedPage(rawURL, err.Error())
	}

	return domain.FetchedPage{
		URL:     rawURL,
		Success: true,
		Title:   title,
		Content: content,
		Length:  len(content),
	}
}
