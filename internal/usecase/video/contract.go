package video

import (
	"context"

	"github.com/edusolve/solvex/internal/domain"
)

// Finder is the consumer interface for the video search backend.
type Finder interface {
	Available() bool
	Search(ctx context.Context, query string) ([]domain.VideoHit, error)
}
