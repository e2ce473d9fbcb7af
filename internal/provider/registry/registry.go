package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/davidbz/plangate/internal/domain"
)

// ErrProviderNotFound is returned when no provider is registered under a name.
var ErrProviderNotFound = errors.New("provider not found")

// Registry implements the ProviderRegistry interface.
//
// Provider ids are matched case-insensitively and listed in registration order.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
	order     []string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		providers: make(map[string]domain.Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(_ context.Context, provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	id := provider.ProviderID()
	if id == "" {
		return errors.New("provider id cannot be empty")
	}

	key := normalize(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[key]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}

	r.providers[key] = provider
	r.order = append(r.order, id)

	return nil
}

// Get retrieves a provider by id.
func (r *Registry) Get(_ context.Context, providerID string) (domain.Provider, error) {
	if providerID == "" {
		return nil, errors.New("provider id cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[normalize(providerID)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	return provider, nil
}

// List returns all registered provider ids in registration order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)

	return ids, nil
}

// Providers returns all registered providers in registration order.
func (r *Registry) Providers(_ context.Context) []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]domain.Provider, 0, len(r.order))
	for _, id := range r.order {
		providers = append(providers, r.providers[normalize(id)])
	}

	return providers
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
