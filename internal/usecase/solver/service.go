// Package solver orchestrates the full question answering pipeline: extract,
// normalize, search, then a parallel fan out into content fetch, video
// lookup and confidence scoring.
package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/logger"
	"github.com/edusolve/solvex/internal/metrics"
)

const queryVariants = 3

// Options tunes pipeline behavior.
type Options struct {
	FanoutTimeout time.Duration
}

// Service wires the pipeline stages together. Every stage after extraction
// degrades gracefully: a failed branch contributes an empty section while
// the rest of the response is still assembled.
type Service struct {
	extractor  Extractor
	normalizer Normalizer
	searcher   Searcher
	fetcher    Fetcher
	videos     VideoFinder
	scorer     Scorer
	opts       Options
	logger     *zap.Logger
}

func New(
	extractor Extractor,
	normalizer Normalizer,
	searcher Searcher,
	fetcher Fetcher,
	videos VideoFinder,
	scorer Scorer,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.FanoutTimeout <= 0 {
		opts.FanoutTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor:  extractor,
		normalizer: normalizer,
		searcher:   searcher,
		fetcher:    fetcher,
		videos:     videos,
		scorer:     scorer,
		opts:       opts,
		logger:     logger,
	}
}

// log prefers the request scoped logger carried in ctx so pipeline entries
// keep the request fields attached by the HTTP middleware.
func (s *Service) log(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Solve runs the pipeline for one question. It errors only when there is no
// usable input: a missing question or a total extraction failure.
func (s *Service) Solve(ctx context.Context, q domain.Query) (*Response, error) {
	start := time.Now()
	var steps []string

	var (
		text          string
		ocrConfidence float64
		pipeline      string
		extracted     string
	)

	switch q.Kind {
	case domain.KindImage:
		pipeline = "image"
		result := s.extractor.Extract(ctx, q.ImagePath)
		if !result.Success {
			metrics.PipelineRequestsTotal.WithLabelValues(pipeline, "extraction_failed").Inc()
			return nil, fmt.Errorf("%w: %s", domain.ErrExtractionFailed, result.Error)
		}
		text = result.Text
		extracted = result.Text
		ocrConfidence = result.Confidence
		steps = append(steps, "ocr_extraction")
	case domain.KindText:
		pipeline = "text"
		text = q.Text
		ocrConfidence = 100
		steps = append(steps, "text_input")
	default:
		return nil, domain.ErrNoInput
	}

	nq := s.normalizer.Normalize(ctx, text, queryVariants)
	steps = append(steps, "normalization")
	if nq.TranslationNeeded {
		steps = append(steps, "translation")
	}

	primary := nq.PrimaryQuery()
	outcome := s.searcher.Search(ctx, primary, q.MaxResults)
	steps = append(steps, "web_search")

	fan := s.fanOut(ctx, primary, ocrConfidence, outcome)
	steps = append(steps, "content_fetch", "video_search", "confidence_scoring")

	resp := &Response{
		Success:  true,
		Pipeline: pipeline,
		Query: QueryInfo{
			Original: text,
			Cleaned:  nq.Cleaned,
			Language: nq.SourceLanguage,
			Keywords: nq.Keywords,
		},
		SearchQueries: nq.SearchQueries,
		SearchResults: SearchSection{
			Total:        len(outcome.Results),
			TrustedCount: outcome.TrustedCount,
			Results:      outcome.Results,
			Warning:      outcome.Warning,
		},
		WebContent:    fan.pages,
		Confidence:    fan.report,
		YouTubeVideos: fan.videos,
		Metadata: Metadata{
			ProcessingSteps:  steps,
			ImageProcessed:   pipeline == "image",
			QueriesGenerated: len(nq.SearchQueries),
			ProcessingTime:   math.Round(time.Since(start).Seconds()*100) / 100,
		},
	}
	if pipeline == "image" {
		resp.ExtractedText = extracted
	}
	if nq.TranslationNeeded {
		resp.Query.Translated = nq.Translated
	}

	s.log(ctx).Info("pipeline completed",
		zap.String("pipeline", pipeline),
		zap.Int("search_results", len(outcome.Results)),
		zap.Float64("confidence", fan.report.Overall))
	metrics.PipelineRequestsTotal.WithLabelValues(pipeline, "ok").Inc()
	return resp, nil
}
