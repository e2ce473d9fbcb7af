package resilience

import (
	"context"
	"sync"

	"github.com/davidbz/plangate/internal/domain"
)

// ClientSet hands out one Client per registered provider. Every client
// shares the set's options and takes its breaker from the BreakerSet, so
// breaker state is never duplicated per caller.
type ClientSet struct {
	registry domain.ProviderRegistry
	breakers *BreakerSet
	opts     []ClientOption

	mu      sync.Mutex
	clients map[string]*Client
}

// NewClientSet creates a client set over registry.
func NewClientSet(registry domain.ProviderRegistry, breakers *BreakerSet, opts ...ClientOption) *ClientSet {
	return &ClientSet{
		registry: registry,
		breakers: breakers,
		opts:     opts,
		clients:  make(map[string]*Client),
	}
}

// Client returns the resilient client for providerID, creating it on first use.
func (s *ClientSet) Client(ctx context.Context, providerID string) (*Client, error) {
	provider, err := s.registry.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	id := provider.ProviderID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[id]; ok {
		return c, nil
	}

	opts := append(append([]ClientOption{}, s.opts...), WithBreaker(s.breakers.Get(id)))
	c := NewClient(provider, opts...)
	s.clients[id] = c
	return c, nil
}

// Clients resolves every id in order.
func (s *ClientSet) Clients(ctx context.Context, providerIDs []string) ([]*Client, error) {
	out := make([]*Client, 0, len(providerIDs))
	for _, id := range providerIDs {
		c, err := s.Client(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
