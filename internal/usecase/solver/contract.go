package solver

import (
	"context"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/usecase/search"
)

// Consumer interfaces for the pipeline stages. Each stage is fail-soft
// except extraction, which is the only hard dependency of the pipeline.

type Extractor interface {
	Extract(ctx context.Context, imagePath string) domain.ExtractionResult
}

type Normalizer interface {
	Normalize(ctx context.Context, text string, maxQueries int) domain.NormalizedQuery
}

type Searcher interface {
	Search(ctx context.Context, query string, count int) search.Outcome
}

type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) []domain.FetchedPage
}

type VideoFinder interface {
	Lookup(ctx context.Context, query string) []domain.VideoHit
}

type Scorer interface {
	Score(ocrConfidence float64, query string, results []domain.SearchResult) domain.ConfidenceReport
}
