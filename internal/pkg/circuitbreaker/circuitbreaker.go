// Package circuitbreaker stops calling a failing dependency for a cool-down
// period. The export worker wraps object storage uploads with it so a storage
// outage fails tasks fast and leaves them to asynq's retry schedule.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker is refusing calls
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	// StateClosed lets calls through
	StateClosed State = iota
	// StateOpen refuses calls
	StateOpen
	// StateHalfOpen lets a single probe through
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

// Config holds circuit breaker configuration
type Config struct {
	// Name identifies the guarded dependency in logs
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker
	MaxFailures int
	// Cooldown is how long the breaker stays open before probing
	Cooldown time.Duration
	// OnStateChange is called synchronously on every transition
	OnStateChange func(name string, from, to State)
}

// Breaker guards calls to one dependency
type Breaker struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a breaker, filling in defaults for zero values
func New(config Config) *Breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	return &Breaker{config: config, now: time.Now}
}

// Execute runs fn unless the breaker is open. Context cancellation is not
// counted as a dependency failure.
func (b *Breaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.before(); err != nil {
		return err
	}

	err := fn()
	b.after(err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.config.Cooldown {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) after(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if ok {
		b.failures = 0
		b.transition(StateClosed)
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.config.MaxFailures {
		b.openedAt = b.now()
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.config.Name, from, to)
	}
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
