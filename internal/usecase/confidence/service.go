// Package confidence scores how reliable an assembled answer is likely to
// be, combining extraction quality, query-to-result match and source trust.
package confidence

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

// Component weights. They sum to 1 so the overall score stays on the same
// 0 to 100 scale as the components.
const (
	weightOCR   = 0.30
	weightMatch = 0.40
	weightTrust = 0.30
)

type Service struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Score produces a confidence report for the answer. Scoring is best effort:
// any internal panic degrades to the neutral report instead of failing the
// pipeline.
func (s *Service) Score(ocrConfidence float64, query string, results []domain.SearchResult) (report domain.ConfidenceReport) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("confidence").Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			s.logger.Error("confidence scoring panicked", zap.Any("panic", r))
			report = domain.NeutralReport()
		}
	}()

	ocr := clampScore(ocrConfidence)
	match := matchQuality(query, results)
	trust := domainTrust(results)

	overall := clampScore(weightOCR*ocr + weightMatch*match + weightTrust*trust)
	overall = round2(overall)

	return domain.ConfidenceReport{
		Overall: overall,
		Components: domain.ConfidenceComponents{
			OCRConfidence: round2(ocr),
			MatchQuality:  round2(match),
			DomainTrust:   round2(trust),
		},
		Grade:       domain.GradeFor(overall),
		Reliability: domain.ReliabilityFor(overall),
	}
}

// matchQuality averages the similarity between the query and each result's
// title plus snippet, scaled to 0 to 100. With no results there is nothing
// to compare, so it stays neutral.
func matchQuality(query string, results []domain.SearchResult) float64 {
	if query == "" || len(results) == 0 {
		return neutralComponent
	}
	var sum float64
	for _, r := range results {
		sum += similarity(query, r.Title+" "+r.Snippet)
	}
	return clampScore(sum / float64(len(results)) * 100)
}

// domainTrust averages the trust scores of the results, neutral when empty.
func domainTrust(results []domain.SearchResult) float64 {
	if len(results) == 0 {
		return neutralComponent
	}
	var sum float64
	for _, r := range results {
		sum += float64(r.TrustScore)
	}
	return clampScore(sum / float64(len(results)))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
