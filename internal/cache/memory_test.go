package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("expected %q, got %q", "v", got)
	}
}

func TestMemory_MissOnAbsentKey(t *testing.T) {
	c := NewMemory()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestMemory_ExpiredEntryMisses(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Still fresh
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("unexpected error before expiry: %v", err)
	}

	// Advance past the TTL
	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestNop_AlwaysMisses(t *testing.T) {
	var c Nop
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}
