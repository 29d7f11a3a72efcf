package util

import (
	"context"
	"testing"
	"time"
)

func TestPerMinute(t *testing.T) {
	l := PerMinute(2)
	if !l.Allow() {
		t.Fatal("expected first rerun to be allowed")
	}
	if l.Allow() {
		t.Fatal("expected immediate second rerun to be rejected")
	}

	unlimited := PerMinute(0)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow() {
			t.Fatalf("expected unlimited limiter to allow event %d", i)
		}
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := PerMinute(1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// The next token is a minute away, beyond the deadline.
	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected Wait to fail before the deadline")
	}
}

func TestLimiter_WaitUnlimited(t *testing.T) {
	l := PerMinute(0)
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
