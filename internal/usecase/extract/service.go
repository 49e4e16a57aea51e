// Package extract implements the OCR extraction stage: a priority chain of
// backends behind a fingerprint-keyed cache. Extraction never returns an
// error to the caller; total failure is a structured result.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/cache"
	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
)

// Service runs OCR backends in priority order.
type Service struct {
	backends  []Backend
	cache     cache.Cache
	cacheTTL  time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// New creates the extraction service. Backend order is the priority order;
// the cache is shared across requests and injected at construction.
func New(backends []Backend, c cache.Cache, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		backends:  backends,
		cache:     c,
		cacheTTL:  ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Extract runs OCR over the image at imagePath. A cache hit short-circuits
// before any OCR work. On total failure the result carries success=false
// and zero confidence; no error escapes this method.
func (s *Service) Extract(ctx context.Context, imagePath string) domain.ExtractionResult {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	}()

	key, keyOK := s.cacheKey(imagePath)
	if keyOK {
		if cached, ok := s.fromCache(ctx, key); ok {
			metrics.OCRCacheTotal.WithLabelValues("hit").Inc()
			return cached
		}
		metrics.OCRCacheTotal.WithLabelValues("miss").Inc()
	}

	var lastErr error
	for _, b := range s.backends {
		if !b.Available() {
			continue
		}

		result, err := b.Extract(ctx, imagePath)
		if err != nil {
			lastErr = err
			s.logger.Warn("OCR backend failed, trying next",
				zap.String("backend", b.Name()),
				zap.Error(err),
			)
			continue
		}

		if keyOK {
			s.toCache(ctx, key, result)
		}
		return result
	}

	if lastErr == nil {
		lastErr = errors.New("no OCR backend available")
	}
	s.logger.Error("OCR extraction failed on all backends", zap.Error(lastErr))
	return domain.FailedExtraction(lastErr.Error())
}

// Available reports whether at least one backend can run. Used by the
// status endpoint without exercising any backend.
func (s *Service) Available() bool {
	for _, b := range s.backends {
		if b.Available() {
			return true
		}
	}
	return false
}

// ActiveBackend returns the name of the first available backend, or "".
func (s *Service) ActiveBackend() string {
	for _, b := range s.backends {
		if b.Available() {
			return b.Name()
		}
	}
	return ""
}

// cacheKey fingerprints the image by file size and modification time,
// avoiding a content hash on the hot path.
func (s *Service) cacheKey(imagePath string) (string, bool) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%socr:%d_%d", s.keyPrefix, info.Size(), info.ModTime().UnixNano()), true
}

func (s *Service) fromCache(ctx context.Context, key string) (domain.ExtractionResult, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("OCR cache read failed", zap.String("key", key), zap.Error(err))
		}
		return domain.ExtractionResult{}, false
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("OCR cache entry corrupted", zap.String("key", key), zap.Error(err))
		return domain.ExtractionResult{}, false
	}
	return result, true
}

func (s *Service) toCache(ctx context.Context, key string, result domain.ExtractionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("OCR cache write failed", zap.String("key", key), zap.Error(err))
	}
}
