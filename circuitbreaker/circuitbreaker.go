// Package circuitbreaker stops calling an upstream after repeated failures
// and retries it once a cooldown has passed.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State represents the current state of a breaker
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects every call until the cooldown ends.
	StateOpen
	// StateHalfOpen lets a limited number of trial calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config contains the configuration for a breaker
type Config struct {
	FailureThreshold int           // consecutive failures before opening
	Cooldown         time.Duration // time spent open before trial calls
	HalfOpenRequests int           // trial calls allowed while half-open
	Logger           *slog.Logger  // state changes; optional
}

var (
	// ErrOpen is returned without calling the upstream while the breaker is open.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrHalfOpenLimitReached is returned when every trial slot is taken.
	ErrHalfOpenLimitReached = errors.New("circuit breaker half-open request limit reached")
)

// Breaker guards a single upstream.
type Breaker struct {
	name   string
	config Config
	now    func() time.Time

	mu                sync.Mutex
	state             State
	failures          int
	halfOpenRequests  int
	halfOpenSuccesses int
	openedAt          time.Time
}

func newBreaker(name string, cfg Config, now func() time.Time) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Minute
	}
	if cfg.HalfOpenRequests <= 0 {
		cfg.HalfOpenRequests = 1
	}
	return &Breaker{name: name, config: cfg, now: now, state: StateClosed}
}

// Execute runs fn unless the breaker rejects the call.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.config.Cooldown {
		b.transitionTo(StateHalfOpen)
	}

	switch b.state {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.halfOpenRequests >= b.config.HalfOpenRequests {
			return ErrHalfOpenLimitReached
		}
		b.halfOpenRequests++
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		if err != nil {
			b.transitionTo(StateOpen)
			return
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.config.HalfOpenRequests {
			b.transitionTo(StateClosed)
		}
	case StateClosed:
		if err == nil {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.transitionTo(StateOpen)
		}
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the breaker.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitionTo(StateClosed)
}

// transitionTo must be called with mu held.
func (b *Breaker) transitionTo(next State) {
	if b.state == next {
		return
	}
	prev := b.state
	b.state = next

	if b.config.Logger != nil {
		b.config.Logger.Info("circuit breaker state changed", "upstream", b.name, "from", prev.String(), "to", next.String())
	}

	b.halfOpenRequests = 0
	b.halfOpenSuccesses = 0
	switch next {
	case StateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case StateOpen:
		b.openedAt = b.now()
	}
}

// Group hands out one breaker per upstream key.
type Group struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates a Group whose breakers share cfg.
func NewGroup(cfg Config) *Group {
	return &Group{config: cfg, now: time.Now, breakers: make(map[string]*Breaker)}
}

// For returns the breaker for key, creating it on first use.
func (g *Group) For(key string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[key]
	if !ok {
		b = newBreaker(key, g.config, g.now)
		g.breakers[key] = b
	}
	return b
}
