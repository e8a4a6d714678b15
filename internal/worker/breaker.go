package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is refusing calls
var ErrCircuitOpen = errors.New("circuit breaker open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker protects a flaky external endpoint: after threshold
// consecutive failures it opens, refusing calls until the cooldown passes,
// then lets a single probe through.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     breakerState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
	now       func() time.Time // Injectable clock
}

// NewCircuitBreaker creates a breaker. threshold <= 0 disables it.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Do runs fn unless the breaker is open
func (b *CircuitBreaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if b == nil || b.threshold <= 0 {
		return fn(ctx)
	}

	if !b.allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	b.record(err == nil)
	return err
}

func (b *CircuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if b.now().Sub(b.openedAt) >= b.cooldown {
			b.state = stateHalfOpen
			return true
		}
		return false
	default: // half-open: one probe at a time
		return false
	}
}

func (b *CircuitBreaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.state = stateClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.threshold {
		b.state = stateOpen
		b.openedAt = b.now()
		b.failures = 0
	}
}
