// Package normalize cleans extracted question text, detects its language,
// translates non-English input and derives search query variants.
package normalize

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

// Service is the text normalization stage of the pipeline.
type Service struct {
	translator Translator
	targetLang string
	logger     *zap.Logger
}

func New(translator Translator, targetLang string, logger *zap.Logger) *Service {
	if targetLang == "" {
		targetLang = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{translator: translator, targetLang: targetLang, logger: logger}
}

// Normalize runs the full cleaning pass over raw question text. Translation
// failures degrade to the cleaned original text rather than failing the
// pipeline.
func (s *Service) Normalize(ctx context.Context, text string, maxQueries int) domain.NormalizedQuery {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("normalize").Observe(time.Since(start).Seconds())
	}()

	cleaned := CleanText(text)
	lang := DetectLanguage(cleaned)

	nq := domain.NormalizedQuery{
		Cleaned:        cleaned,
		Translated:     cleaned,
		SourceLanguage: lang,
	}

	if lang != "unknown" && lang != s.targetLang {
		if s.translator != nil && s.translator.Available() {
			tr, err := s.translator.Translate(ctx, cleaned)
			if err != nil {
				s.logger.Warn("translation failed, continuing with original text",
					zap.String("source_language", lang), zap.Error(err))
				metrics.ExternalRequestsTotal.WithLabelValues("translate", "error").Inc()
			} else {
				metrics.ExternalRequestsTotal.WithLabelValues("translate", "ok").Inc()
				nq.Translated = tr.Text
				nq.TranslationNeeded = true
				if tr.SourceLang != "" {
					nq.SourceLanguage = tr.SourceLang
				}
			}
		}
	}

	nq.SearchQueries = GenerateSearchQueries(nq.QueryText(), maxQueries)
	nq.Keywords = ExtractKeywords(nq.QueryText())
	return nq
}
