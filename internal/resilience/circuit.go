package resilience

import (
	"sync"
	"time"

	"github.com/davidbz/plangate/internal/domain"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through.
	StateClosed State = iota
	// StateOpen means calls fail fast without touching the network.
	StateOpen
	// StateHalfOpen means a single trial call is allowed through.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// CircuitBreakerConfig configures one provider's breaker.
type CircuitBreakerConfig struct {
	// ProviderID labels errors and state change callbacks.
	ProviderID string

	// FailureThreshold is the number of failures within Window that opens the circuit.
	// Default: 5
	FailureThreshold int

	// Window bounds how far apart counted failures may be.
	// Default: 60 seconds
	Window time.Duration

	// OpenDuration is how long the circuit stays open before a trial call.
	// Default: 30 seconds
	OpenDuration time.Duration

	// Disabled turns the breaker into a pass-through that never opens.
	Disabled bool

	// OnStateChange is called after the state changes, outside the lock.
	OnStateChange func(providerID string, from, to State)

	// Now returns the current time.
	// Default: time.Now
	Now func() time.Time
}

// Ticket is the admission granted by Allow. It must be settled with exactly
// one of Success, Failure or Abandon.
type Ticket struct {
	generation uint64
	trial      bool
}

type transition struct {
	from, to State
}

// CircuitBreaker implements the per-provider circuit breaker.
//
// Every transition happens under one mutex, so two callers can never both
// open the circuit or both take the half-open trial slot. Outcomes reported
// for tickets issued before the latest transition are ignored.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu             sync.Mutex
	state          State
	generation     uint64
	failures       int
	windowStart    time.Time
	lastTransition time.Time
	trialInFlight  bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.OpenDuration <= 0 {
		config.OpenDuration = 30 * time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &CircuitBreaker{
		config:         config,
		state:          StateClosed,
		lastTransition: config.Now(),
	}
}

// Allow admits a call or returns a CIRCUIT_OPEN error.
func (cb *CircuitBreaker) Allow() (Ticket, error) {
	if cb.config.Disabled {
		return Ticket{}, nil
	}

	cb.mu.Lock()
	var changes []transition
	state := cb.currentStateLocked(&changes)

	var (
		ticket Ticket
		err    error
	)
	switch state {
	case StateOpen:
		err = domain.NewCircuitOpenError(cb.config.ProviderID)
	case StateHalfOpen:
		if cb.trialInFlight {
			err = domain.NewCircuitOpenError(cb.config.ProviderID)
			break
		}
		cb.trialInFlight = true
		ticket = Ticket{generation: cb.generation, trial: true}
	default:
		ticket = Ticket{generation: cb.generation}
	}
	cb.mu.Unlock()

	cb.notify(changes)
	return ticket, err
}

// Success records a successful call.
func (cb *CircuitBreaker) Success(t Ticket) {
	cb.settle(t, true)
}

// Failure records a terminal failure.
func (cb *CircuitBreaker) Failure(t Ticket) {
	cb.settle(t, false)
}

// Abandon releases a ticket without a verdict, e.g. when the caller cancelled.
func (cb *CircuitBreaker) Abandon(t Ticket) {
	if cb.config.Disabled || !t.trial {
		return
	}

	cb.mu.Lock()
	if t.generation == cb.generation && cb.state == StateHalfOpen {
		cb.trialInFlight = false
	}
	cb.mu.Unlock()
}

func (cb *CircuitBreaker) settle(t Ticket, success bool) {
	if cb.config.Disabled {
		return
	}

	cb.mu.Lock()
	var changes []transition
	if t.generation == cb.generation {
		now := cb.config.Now()

		switch cb.state {
		case StateClosed:
			if success {
				cb.failures = 0
				break
			}
			if cb.failures == 0 || now.Sub(cb.windowStart) > cb.config.Window {
				cb.failures = 0
				cb.windowStart = now
			}
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.setStateLocked(StateOpen, now, &changes)
			}

		case StateHalfOpen:
			if !t.trial {
				break
			}
			cb.trialInFlight = false
			if success {
				cb.failures = 0
				cb.setStateLocked(StateClosed, now, &changes)
			} else {
				cb.setStateLocked(StateOpen, now, &changes)
			}
		}
	}
	cb.mu.Unlock()

	cb.notify(changes)
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	if cb.config.Disabled {
		return StateClosed
	}

	cb.mu.Lock()
	var changes []transition
	state := cb.currentStateLocked(&changes)
	cb.mu.Unlock()

	cb.notify(changes)
	return state
}

// Metrics returns a snapshot of the breaker.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	var changes []transition
	state := cb.currentStateLocked(&changes)
	snapshot := CircuitBreakerMetrics{
		State:          state,
		Failures:       cb.failures,
		LastTransition: cb.lastTransition,
		Disabled:       cb.config.Disabled,
	}
	cb.mu.Unlock()

	cb.notify(changes)
	if snapshot.Disabled {
		snapshot.State = StateClosed
	}
	return snapshot
}

func (cb *CircuitBreaker) currentStateLocked(changes *[]transition) State {
	if cb.state == StateOpen {
		now := cb.config.Now()
		if now.Sub(cb.lastTransition) >= cb.config.OpenDuration {
			cb.setStateLocked(StateHalfOpen, now, changes)
		}
	}
	return cb.state
}

func (cb *CircuitBreaker) setStateLocked(state State, now time.Time, changes *[]transition) {
	*changes = append(*changes, transition{from: cb.state, to: state})

	cb.state = state
	cb.generation++
	cb.lastTransition = now
	cb.trialInFlight = false
}

func (cb *CircuitBreaker) notify(changes []transition) {
	if cb.config.OnStateChange == nil {
		return
	}
	for _, c := range changes {
		cb.config.OnStateChange(cb.config.ProviderID, c.from, c.to)
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State          State
	Failures       int
	LastTransition time.Time
	Disabled       bool
}
