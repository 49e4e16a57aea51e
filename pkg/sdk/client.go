// Package solvex is a small typed client for the solvex HTTP API.
package solvex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	healthuc "github.com/edusolve/solvex/internal/usecase/health"
	solveruc "github.com/edusolve/solvex/internal/usecase/solver"
)

const defaultTimeout = 30 * time.Second

// Response is the assembled answer returned by the solve endpoint.
type Response = solveruc.Response

// Status is the service health snapshot.
type Status = healthuc.Status

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("solvex: %s (%s), status %d", e.Message, e.Details, e.StatusCode)
	}
	return fmt.Sprintf("solvex: %s, status %d", e.Message, e.StatusCode)
}

// Client talks to a solvex server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SolveText submits a typed question.
func (c *Client) SolveText(ctx context.Context, text string, maxResults int) (*Response, error) {
	payload, err := json.Marshal(map[string]any{
		"text":        text,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("solvex: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("solvex: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doSolve(req)
}

// SolveImage submits a question photographed in the image at path.
func (c *Client) SolveImage(ctx context.Context, path string, maxResults int) (*Response, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("solvex: open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("solvex: build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("solvex: read image: %w", err)
	}
	if maxResults > 0 {
		if err := mw.WriteField("max_results", strconv.Itoa(maxResults)); err != nil {
			return nil, fmt.Errorf("solvex: build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("solvex: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/solve", &buf)
	if err != nil {
		return nil, fmt.Errorf("solvex: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doSolve(req)
}

func (c *Client) doSolve(req *http.Request) (*Response, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solvex: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("solvex: decode response: %w", err)
	}
	return &out, nil
}

// Health probes the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("solvex: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("solvex: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

// Status fetches the per-dependency availability snapshot.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("solvex: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solvex: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("solvex: decode status: %w", err)
	}
	return &st, nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}
