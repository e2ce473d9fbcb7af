package resilience

import "sync"

// BreakerSet holds exactly one breaker per provider id for the life of the process.
type BreakerSet struct {
	config CircuitBreakerConfig

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerSet creates a set whose breakers share config. ProviderID is
// filled in per breaker.
func NewBreakerSet(config CircuitBreakerConfig) *BreakerSet {
	return &BreakerSet{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for providerID, creating it on first use.
func (s *BreakerSet) Get(providerID string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cb, ok := s.breakers[providerID]; ok {
		return cb
	}

	config := s.config
	config.ProviderID = providerID
	cb := NewCircuitBreaker(config)
	s.breakers[providerID] = cb
	return cb
}

// Snapshot returns the metrics of every breaker created so far.
func (s *BreakerSet) Snapshot() map[string]CircuitBreakerMetrics {
	s.mu.Lock()
	breakers := make(map[string]*CircuitBreaker, len(s.breakers))
	for id, cb := range s.breakers {
		breakers[id] = cb
	}
	s.mu.Unlock()

	out := make(map[string]CircuitBreakerMetrics, len(breakers))
	for id, cb := range breakers {
		out[id] = cb.Metrics()
	}
	return out
}
