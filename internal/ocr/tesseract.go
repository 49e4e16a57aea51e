package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/edusolve/solvex/internal/domain"
)

// estimatedConfidence is reported when Tesseract yields text but no usable
// per-word confidences.
const estimatedConfidence = 70

// Tesseract is the local OCR engine. Fast and offline; first in the
// backend priority order.
type Tesseract struct {
	languages []string
	enabled   bool
}

// NewTesseract creates the local engine backend.
func NewTesseract(enabled bool, languages []string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{languages: languages, enabled: enabled}
}

// Name implements Backend.
func (t *Tesseract) Name() string { return "tesseract" }

// Available implements Backend.
func (t *Tesseract) Available() bool { return t.enabled }

// Extract runs Tesseract over the image and normalizes its word
// confidences to 0-100.
func (t *Tesseract) Extract(ctx context.Context, imagePath string) (domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("tesseract ocr: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ExtractionResult{}, fmt.Errorf("tesseract ocr: no text detected")
	}

	return domain.ExtractionResult{
		Success:    true,
		Text:       text,
		Confidence: t.confidence(client),
		Language:   DetectScript(text),
		Method:     t.Name(),
	}, nil
}

// confidence averages Tesseract's per-word confidences (already 0-100).
// Falls back to a conservative estimate when boxes are unavailable.
func (t *Tesseract) confidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return estimatedConfidence
	}

	var sum float64
	var n int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += b.Confidence
		n++
	}
	if n == 0 {
		return estimatedConfidence
	}
	return sum / float64(n)
}
