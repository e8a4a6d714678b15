package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)
	fail := func(context.Context) error { return errors.New("down") }

	_ = b.Do(context.Background(), fail)
	_ = b.Do(context.Background(), fail)

	err := b.Do(context.Background(), fail)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected circuit open after 2 failures, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)

	_ = b.Do(context.Background(), func(context.Context) error { return errors.New("down") })
	_ = b.Do(context.Background(), func(context.Context) error { return nil })
	_ = b.Do(context.Background(), func(context.Context) error { return errors.New("down") })

	// One failure since the success; breaker should still be closed
	err := b.Do(context.Background(), func(context.Context) error { return nil })
	if err != nil {
		t.Errorf("Expected closed breaker, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	_ = b.Do(context.Background(), func(context.Context) error { return errors.New("down") })

	if err := b.Do(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Expected open before cooldown, got %v", err)
	}

	// After the cooldown a single probe goes through
	clock = clock.Add(2 * time.Minute)
	if err := b.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Expected probe allowed after cooldown, got %v", err)
	}

	// Probe succeeded, breaker closed again
	if err := b.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected closed after successful probe, got %v", err)
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	_ = b.Do(context.Background(), func(context.Context) error { return errors.New("down") })

	clock = clock.Add(2 * time.Minute)
	_ = b.Do(context.Background(), func(context.Context) error { return errors.New("still down") })

	if err := b.Do(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected reopened after failed probe, got %v", err)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(0, time.Minute)

	for i := 0; i < 10; i++ {
		_ = b.Do(context.Background(), func(context.Context) error { return errors.New("down") })
	}
	if err := b.Do(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("Expected disabled breaker to pass through, got %v", err)
	}
}
