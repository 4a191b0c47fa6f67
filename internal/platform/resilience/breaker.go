// Package resilience holds the small dependency-protection primitives used
// around the provider boundary: a circuit breaker and call deduplication.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// BreakerConfig is the tunable surface exposed through app config.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// Normalize clamps nonsensical values to safe defaults.
func (c BreakerConfig) Normalize() BreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = 1
	}
	return c
}

// Breaker trips after a run of consecutive failures and probes with a
// bounded number of half-open requests after the open timeout elapses.
type Breaker struct {
	mu sync.Mutex

	cfg BreakerConfig
	now func() time.Time

	state        State
	failures     int
	openedAt     time.Time
	probeCount   int
	probeSuccess int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{
		cfg:   cfg.Normalize(),
		now:   time.Now,
		state: StateClosed,
	}
}

// Allow reports whether a request may proceed right now.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probeCount = 0
		b.probeSuccess = 0
	}

	if b.state == StateHalfOpen {
		if b.probeCount >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probeCount++
	}

	return nil
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.probeSuccess++
		if b.probeSuccess >= b.cfg.HalfOpenMaxReq {
			b.state = StateClosed
			b.failures = 0
			b.openedAt = time.Time{}
		}
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		b.trip()
	case StateOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.probeCount = 0
	b.probeSuccess = 0
}
