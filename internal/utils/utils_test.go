package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("zero duration must return immediately, got %v", err)
	}

	start := time.Now()
	if err := WaitFor(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("returned after %s, expected at least 10ms", elapsed)
	}
}

func TestWaitForCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := WaitFor(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for zero delay, got %v", err)
	}
}
