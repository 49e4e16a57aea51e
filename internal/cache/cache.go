// Package cache provides the shared key-value cache used by the search
// client and the OCR extractor. Implementations are append-only from the
// caller's perspective: a Set never invalidates a concurrent Get of a
// different key.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: key not found")

// Cache is a process-wide key-value store with optional expiry.
// Created once at startup and injected into services at construction time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Nop is a no-op cache: every Get misses, every Set is discarded.
// Used in tests and when caching is disabled.
type Nop struct{}

// Get always returns ErrMiss.
func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
