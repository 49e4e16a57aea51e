package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/edusolve/solvex/internal/domain"
)

// visionDefaultConfidence is used when the API response carries no
// per-block confidence values.
const visionDefaultConfidence = 0.8

// Vision is the cloud OCR backend. Slower but more accurate; used as
// enrichment after the local engine.
type Vision struct {
	service *vision.Service
}

// NewVision creates the cloud backend. Returns an unavailable backend when
// no API key is configured or the client cannot be constructed.
func NewVision(ctx context.Context, apiKey string) *Vision {
	if apiKey == "" {
		return &Vision{}
	}
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return &Vision{}
	}
	return &Vision{service: svc}
}

// Name implements Backend.
func (v *Vision) Name() string { return "vision" }

// Available implements Backend.
func (v *Vision) Available() bool { return v.service != nil }

// Extract sends the image to the text-detection endpoint.
func (v *Vision) Extract(ctx context.Context, imagePath string) (domain.ExtractionResult, error) {
	if v.service == nil {
		return domain.ExtractionResult{}, fmt.Errorf("vision backend not configured")
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("read image: %w", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("annotate image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return domain.ExtractionResult{}, fmt.Errorf("annotate image: empty response")
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil {
		return domain.ExtractionResult{}, fmt.Errorf("annotate image: %s", annotation.Error.Message)
	}
	if annotation.FullTextAnnotation == nil || strings.TrimSpace(annotation.FullTextAnnotation.Text) == "" {
		return domain.ExtractionResult{}, fmt.Errorf("annotate image: no text detected")
	}

	text := strings.TrimSpace(annotation.FullTextAnnotation.Text)

	return domain.ExtractionResult{
		Success:    true,
		Text:       text,
		Confidence: blockConfidence(annotation.FullTextAnnotation) * 100,
		Language:   DetectScript(text),
		Method:     v.Name(),
	}, nil
}

// blockConfidence averages the per-block confidences (0-1 scale).
func blockConfidence(full *vision.TextAnnotation) float64 {
	var sum float64
	var n int
	for _, page := range full.Pages {
		for _, block := range page.Blocks {
			if block.Confidence > 0 {
				sum += block.Confidence
				n++
			}
		}
	}
	if n == 0 {
		return visionDefaultConfidence
	}
	return sum / float64(n)
}
