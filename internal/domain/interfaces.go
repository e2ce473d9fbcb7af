package domain

import "context"

// Provider represents one LLM backend reduced to its call contract.
//
// Implementations are stateless between calls and safe for concurrent use.
type Provider interface {
	// ProviderID returns the constant key used by the cache, breaker and fallback chain.
	ProviderID() string

	// Send issues exactly one outbound call. Failures are *Error values.
	Send(ctx context.Context, req *Request) (*Response, error)

	// IsHealthy runs a short best-effort liveness check.
	IsHealthy(ctx context.Context) bool

	// Defaults returns the values used to complete a caller's ModelParams.
	Defaults() Defaults
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by id.
	Get(ctx context.Context, providerID string) (Provider, error)

	// List returns all registered provider ids in registration order.
	List(ctx context.Context) ([]string, error)
}

// ResponseCache stores successful responses by request fingerprint.
//
// Contract:
// - Get never returns an expired entry.
// - Concurrent Get/Put on the same key are linearizable.
// - Only successful responses are ever stored.
type ResponseCache interface {
	Get(ctx context.Context, fingerprint string) (*Response, bool)
	Put(ctx context.Context, fingerprint string, resp *Response)
}

// Router determines the ordered fallback chain for a preferred provider.
type Router interface {
	Route(ctx context.Context, preferred string) ([]string, error)
}
