package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

// ErrNoProviders is returned when no provider in the chain is registered.
var ErrNoProviders = errors.New("no providers available")

// ChainRouter builds the ordered fallback chain for a request.
//
// The chain is the resolved primary, then the configured fallbacks, then the
// default provider. Unregistered names are dropped and duplicates removed.
// An unknown preferred provider resolves to the default provider.
type ChainRouter struct {
	registry        domain.ProviderRegistry
	defaultProvider string
	fallbacks       []string
}

// NewRouter creates a new chain router.
func NewRouter(registry domain.ProviderRegistry, defaultProvider string, fallbacks []string) *ChainRouter {
	return &ChainRouter{
		registry:        registry,
		defaultProvider: defaultProvider,
		fallbacks:       fallbacks,
	}
}

// Route returns canonical provider ids, primary first.
func (r *ChainRouter) Route(ctx context.Context, preferred string) ([]string, error) {
	primary, err := r.Resolve(ctx, preferred)
	if err != nil {
		return nil, err
	}

	chain := []string{primary}
	seen := map[string]struct{}{primary: {}}

	candidates := append(append([]string{}, r.fallbacks...), r.defaultProvider)
	for _, name := range candidates {
		id, ok := r.lookup(ctx, name)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		chain = append(chain, id)
	}

	return chain, nil
}

// Resolve maps a provider name to its canonical id, case-insensitively.
// Unknown or empty names resolve to the default provider.
func (r *ChainRouter) Resolve(ctx context.Context, name string) (string, error) {
	if id, ok := r.lookup(ctx, name); ok {
		return id, nil
	}

	id, ok := r.lookup(ctx, r.defaultProvider)
	if !ok {
		return "", fmt.Errorf("%w: default provider %q is not registered", ErrNoProviders, r.defaultProvider)
	}

	if name != "" {
		observability.FromContext(ctx).Warn("unknown provider, using default",
			observability.String("requested", name),
			observability.String("provider", id),
		)
	}

	return id, nil
}

// Default returns the default provider's canonical id.
func (r *ChainRouter) Default(ctx context.Context) (string, error) {
	return r.Resolve(ctx, "")
}

func (r *ChainRouter) lookup(ctx context.Context, name string) (string, bool) {
	if name == "" {
		return "", false
	}

	provider, err := r.registry.Get(ctx, name)
	if err != nil {
		return "", false
	}

	return provider.ProviderID(), true
}
