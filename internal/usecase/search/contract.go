package search

import (
	"context"

	"github.com/edusolve/solvex/internal/domain"
)

// Provider is a web search backend. Providers are tried in order until one
// both reports itself available and returns results without error.
type Provider interface {
	Name() string
	Available() bool
	Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error)
}
