package resilience

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davidbz/plangate/internal/async"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

// Client wraps one provider with cache, circuit breaker and retry.
//
// A call consults the cache first; on a miss it passes the breaker, runs the
// provider under the retry policy, then stores the response and records the
// outcome. Cached responses never touch the breaker. Blank responses are
// returned but not cached.
type Client struct {
	provider domain.Provider
	cache    domain.ResponseCache
	breaker  *CircuitBreaker
	retry    *Retry
	pool     *async.Pool
	group    *singleflight.Group
	hooks    Hooks
	now      func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCache sets the response cache.
func WithCache(cache domain.ResponseCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithBreaker sets the provider's circuit breaker.
func WithBreaker(cb *CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithRetry sets the retry policy.
func WithRetry(r *Retry) ClientOption {
	return func(c *Client) {
		c.retry = r
	}
}

// WithPool sets the worker pool used by SendAsync.
func WithPool(pool *async.Pool) ClientOption {
	return func(c *Client) {
		c.pool = pool
	}
}

// WithSingleFlight collapses identical concurrent cache misses into one
// provider call.
func WithSingleFlight() ClientOption {
	return func(c *Client) {
		c.group = &singleflight.Group{}
	}
}

// WithHooks sets the event hooks.
func WithHooks(hooks Hooks) ClientOption {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// NewClient creates a resilient client for provider.
func NewClient(provider domain.Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		c.cache = noCache{}
	}
	if c.breaker == nil {
		c.breaker = NewCircuitBreaker(CircuitBreakerConfig{ProviderID: provider.ProviderID()})
	}
	if c.retry == nil {
		c.retry = NewRetry(RetryConfig{})
	}
	if c.pool == nil {
		c.pool = async.NewPool(defaultPoolSize)
	}

	return c
}

const defaultPoolSize = 8

// ProviderID returns the wrapped provider's id.
func (c *Client) ProviderID() string {
	return c.provider.ProviderID()
}

// Defaults returns the wrapped provider's defaults.
func (c *Client) Defaults() domain.Defaults {
	return c.provider.Defaults()
}

// BreakerState returns the state of the provider's breaker.
func (c *Client) BreakerState() State {
	return c.breaker.State()
}

// IsHealthy reports false while the breaker is open, otherwise the
// provider's own health check result.
func (c *Client) IsHealthy(ctx context.Context) bool {
	if c.breaker.State() == StateOpen {
		return false
	}
	return c.provider.IsHealthy(ctx)
}

// Send returns a response for req or a *domain.Error.
func (c *Client) Send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	providerID := c.provider.ProviderID()

	fingerprint, err := domain.Fingerprint(providerID, req)
	if err != nil {
		return nil, domain.NewClientError(providerID, "fingerprint request", err)
	}

	if cached, ok := c.cache.Get(ctx, fingerprint); ok {
		c.hooks.cacheLookup(ctx, providerID, true)
		return cached.CachedCopy(), nil
	}
	c.hooks.cacheLookup(ctx, providerID, false)

	if c.group == nil {
		return c.call(ctx, fingerprint, req)
	}

	// The shared call runs under the first caller's context.
	value, err, _ := c.group.Do(fingerprint, func() (any, error) {
		return c.call(ctx, fingerprint, req)
	})
	if err != nil {
		return nil, err
	}
	return value.(*domain.Response), nil
}

// SendAsync runs Send on the client's worker pool.
func (c *Client) SendAsync(ctx context.Context, req *domain.Request) *async.Future[*domain.Response] {
	return async.Submit(ctx, c.pool, func(ctx context.Context) (*domain.Response, error) {
		return c.Send(ctx, req)
	})
}

func (c *Client) call(ctx context.Context, fingerprint string, req *domain.Request) (*domain.Response, error) {
	providerID := c.provider.ProviderID()
	ctx = observability.WithModel(observability.WithProvider(ctx, providerID), req.Model)

	ticket, err := c.breaker.Allow()
	if err != nil {
		return nil, err
	}

	start := c.now()
	resp, err := c.retry.Execute(ctx, providerID, func(ctx context.Context) (*domain.Response, error) {
		return c.provider.Send(ctx, req)
	})
	duration := c.now().Sub(start)

	if err != nil {
		typed := domain.AsError(providerID, err)
		if errors.Is(err, context.Canceled) {
			c.breaker.Abandon(ticket)
		} else {
			c.breaker.Failure(ticket)
		}
		c.hooks.call(ctx, providerID, duration, typed)
		return nil, typed
	}

	c.breaker.Success(ticket)
	if strings.TrimSpace(resp.Content) != "" {
		c.cache.Put(ctx, fingerprint, resp)
	}
	c.hooks.call(ctx, providerID, duration, nil)

	return resp, nil
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*domain.Response, bool) { return nil, false }

func (noCache) Put(context.Context, string, *domain.Response) {}
