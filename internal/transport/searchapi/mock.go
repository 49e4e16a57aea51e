package searchapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edusolve/solvex/internal/domain"
)

// Mock serves canned results so the pipeline stays usable without a search
// API key. Consumers should surface a warning when this provider is active.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Available() bool { return true }

func (m *Mock) Search(_ context.Context, query string, count int) ([]domain.SearchResult, error) {
	results := []domain.SearchResult{
		{
			Title:   fmt.Sprintf("How to solve: %s", query),
			URL:     "https://stackoverflow.com/questions/solving-" + url.PathEscape(query),
			Snippet: fmt.Sprintf("Community answers discussing approaches to %q with worked examples.", query),
			Domain:  "stackoverflow.com",
		},
		{
			Title:   fmt.Sprintf("%s - step by step explanation", query),
			URL:     "https://www.example-education.com/solutions?q=" + url.QueryEscape(query),
			Snippet: "A step by step walkthrough of the problem with the underlying concepts.",
			Domain:  "example-education.com",
		},
	}
	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}
