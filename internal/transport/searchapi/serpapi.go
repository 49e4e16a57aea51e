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

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPI queries serpapi.com with the same result shape as SearchAPI.io.
type SerpAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSerpAPI(apiKey string, timeout time.Duration, logger *zap.Logger) *SerpAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerpAPI{
		apiKey:     apiKey,
		baseURL:    serpAPIBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Available() bool { return s.apiKey != "" }

func (s *SerpAPI) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}

	return organicToResults(body.OrganicResults, count), nil
}
