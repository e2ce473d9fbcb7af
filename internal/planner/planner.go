// Package planner turns a prompt into a plan by routing it across the
// configured providers.
package planner

import (
	"context"
	"fmt"

	"github.com/davidbz/plangate/internal/async"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
	"github.com/davidbz/plangate/internal/resilience"
)

// PlanResult is a successful planning answer.
type PlanResult struct {
	Plan       string `json:"plan"`
	ProviderID string `json:"provider_id"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used"`
	LatencyMs  int64  `json:"latency_ms"`
	FromCache  bool   `json:"from_cache"`
}

// Router resolves provider names. Resolution is total: unknown names map to
// the default provider.
type Router interface {
	Route(ctx context.Context, preferred string) ([]string, error)
	Resolve(ctx context.Context, name string) (string, error)
	Default(ctx context.Context) (string, error)
}

// ClientSource returns the resilient client of a provider.
type ClientSource interface {
	Client(ctx context.Context, providerID string) (*resilience.Client, error)
	Clients(ctx context.Context, providerIDs []string) ([]*resilience.Client, error)
}

// Config holds request defaults applied before provider defaults.
type Config struct {
	// Provider is used when a caller names none.
	Provider     string
	SystemPrompt string
}

// Planner is the single entry point for planning calls.
type Planner struct {
	router      Router
	clients     ClientSource
	fallback    *resilience.Fallback
	pool        *async.Pool
	interpreter Interpreter
	config      Config
}

// Option configures a Planner.
type Option func(*Planner)

// WithInterpreter replaces the TextInterpreter.
func WithInterpreter(interpreter Interpreter) Option {
	return func(p *Planner) {
		p.interpreter = interpreter
	}
}

// WithConfig sets the request defaults.
func WithConfig(config Config) Option {
	return func(p *Planner) {
		p.config = config
	}
}

// New creates a planner.
func New(router Router, clients ClientSource, fallback *resilience.Fallback, pool *async.Pool, opts ...Option) *Planner {
	p := &Planner{
		router:      router,
		clients:     clients,
		fallback:    fallback,
		pool:        pool,
		interpreter: TextInterpreter{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanAsync runs the whole fallback chain for providerName on the worker
// pool. The future resolves to nil when no provider produced a plan; the
// detailed error is logged, never returned. An error is returned only when
// ctx ends before a worker is free.
func (p *Planner) PlanAsync(ctx context.Context, prompt, providerName string, params domain.ModelParams) *async.Future[*PlanResult] {
	ctx = observability.EnsureRequestScope(ctx)
	providerName = p.providerName(providerName)

	return async.Submit(ctx, p.pool, func(ctx context.Context) (*PlanResult, error) {
		result, err := p.planWithFallback(ctx, prompt, providerName, params)
		if err != nil {
			observability.FromContext(ctx).Error("planning failed",
				observability.String("requested", providerName),
				observability.String("error_type", string(domain.ErrorTypeOf(err))),
				observability.Error(err),
			)
			return nil, nil
		}
		return result, nil
	})
}

// Plan calls the resolved provider on the caller's goroutine. When it fails
// the default provider gets exactly one more call before the error is
// returned.
func (p *Planner) Plan(ctx context.Context, prompt, providerName string, params domain.ModelParams) (*PlanResult, error) {
	ctx = observability.EnsureRequestScope(ctx)
	logger := observability.FromContext(ctx)

	primary, err := p.router.Resolve(ctx, p.providerName(providerName))
	if err != nil {
		return nil, err
	}

	result, err := p.attempt(ctx, primary, prompt, params)
	if err == nil {
		return result, nil
	}

	fallbackID, defaultErr := p.router.Default(ctx)
	if defaultErr != nil || fallbackID == primary || ctx.Err() != nil {
		return nil, err
	}

	logger.Warn("primary provider failed, trying default provider",
		observability.String("provider", primary),
		observability.String("default", fallbackID),
		observability.Error(err),
	)

	return p.attempt(ctx, fallbackID, prompt, params)
}

// IsHealthy reports the health of the provider providerName resolves to.
func (p *Planner) IsHealthy(ctx context.Context, providerName string) bool {
	id, err := p.router.Resolve(ctx, p.providerName(providerName))
	if err != nil {
		return false
	}

	client, err := p.clients.Client(ctx, id)
	if err != nil {
		return false
	}

	return client.IsHealthy(ctx)
}

func (p *Planner) providerName(name string) string {
	if name == "" {
		return p.config.Provider
	}
	return name
}

func (p *Planner) planWithFallback(ctx context.Context, prompt, providerName string, params domain.ModelParams) (*PlanResult, error) {
	chain, err := p.router.Route(ctx, providerName)
	if err != nil {
		return nil, err
	}

	clients, err := p.clients.Clients(ctx, chain)
	if err != nil {
		return nil, err
	}

	resp, err := p.fallback.Execute(ctx, clients, func(c *resilience.Client) *domain.Request {
		return p.request(prompt, params, c)
	})
	if err != nil {
		return nil, err
	}

	return p.interpret(ctx, resp)
}

func (p *Planner) attempt(ctx context.Context, providerID, prompt string, params domain.ModelParams) (*PlanResult, error) {
	client, err := p.clients.Client(ctx, providerID)
	if err != nil {
		return nil, err
	}

	resp, err := client.Send(ctx, p.request(prompt, params, client))
	if err != nil {
		return nil, err
	}

	return p.interpret(ctx, resp)
}

func (p *Planner) request(prompt string, params domain.ModelParams, client *resilience.Client) *domain.Request {
	if params.SystemPrompt == "" {
		params.SystemPrompt = p.config.SystemPrompt
	}
	return domain.BuildRequest(prompt, params, client.Defaults())
}

func (p *Planner) interpret(ctx context.Context, resp *domain.Response) (*PlanResult, error) {
	plan, err := p.interpreter.Interpret(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("interpret %s response: %w", resp.ProviderID, err)
	}

	observability.FromContext(ctx).Info("plan ready",
		observability.String("provider", resp.ProviderID),
		observability.String("model", resp.Model),
		observability.Int("tokens", resp.TokensUsed),
		observability.Bool("from_cache", resp.FromCache),
	)

	return &PlanResult{
		Plan:       plan,
		ProviderID: resp.ProviderID,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
		LatencyMs:  resp.LatencyMs,
		FromCache:  resp.FromCache,
	}, nil
}

