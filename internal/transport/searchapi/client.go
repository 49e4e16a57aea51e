// Package searchapi provides web search providers for the pipeline. The
// primary client talks to SearchAPI.io, with SerpAPI as an alternative and
// a canned mock provider for keyless deployments.
package searchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
)

const defaultBaseURL = "https://www.searchapi.io/api/v1/search"

// Client queries SearchAPI.io's Google engine.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Name() string { return "searchapi" }

func (c *Client) Available() bool { return c.apiKey != "" }

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

func (c *Client) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searchapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searchapi returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode searchapi response: %w", err)
	}

	return organicToResults(body.OrganicResults, count), nil
}

func organicToResults(organic []organicResult, count int) []domain.SearchResult {
	if len(organic) > count {
		organic = organic[:count]
	}
	results := make([]domain.SearchResult, 0, len(organic))
	for _, r := range organic {
		if r.Link == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
			Domain:  domain.DomainOf(r.Link),
		})
	}
	return results
}
