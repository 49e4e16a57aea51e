package extract

import (
	"context"

	"github.com/edusolve/solvex/internal/domain"
)

// Backend is the consumer interface for OCR engines. Implementations
// report confidence on the normalized 0-100 scale.
type Backend interface {
	Name() string
	Available() bool
	Extract(ctx context.Context, imagePath string) (domain.ExtractionResult, error)
}
