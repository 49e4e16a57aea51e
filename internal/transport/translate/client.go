// Package translate is a thin client for a LibreTranslate compatible
// translation endpoint.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/usecase/normalize"
)

// Client translates question text into the configured target language.
type Client struct {
	baseURL    string
	apiKey     string
	targetLang string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, targetLang string, timeout time.Duration, logger *zap.Logger) *Client {
	if targetLang == "" {
		targetLang = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		targetLang: targetLang,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Available() bool { return c.baseURL != "" }

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage struct {
		Language string `json:"language"`
	} `json:"detectedLanguage"`
}

func (c *Client) Translate(ctx context.Context, text string) (normalize.Translation, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "auto",
		Target: c.targetLang,
		APIKey: c.apiKey,
	})
	if err != nil {
		return normalize.Translation{}, fmt.Errorf("encode translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return normalize.Translation{}, fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return normalize.Translation{}, fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return normalize.Translation{}, fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	var body translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return normalize.Translation{}, fmt.Errorf("decode translate response: %w", err)
	}
	if body.TranslatedText == "" {
		return normalize.Translation{}, fmt.Errorf("translate endpoint returned empty text")
	}

	return normalize.Translation{
		Text:       body.TranslatedText,
		SourceLang: body.DetectedLanguage.Language,
	}, nil
}
