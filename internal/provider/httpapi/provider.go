// Package httpapi provides a table-driven adapter for vendors that are not
// OpenAI-compatible. Each vendor is described by a dialect: endpoint,
// headers, body shape and response paths.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

const (
	defaultTimeout = 60 * time.Second
	healthTimeout  = 2 * time.Second
	maxBodyBytes   = 4 << 20
)

var (
	// ErrUnknownDialect is returned for a dialect not in the vendor table.
	ErrUnknownDialect = errors.New("unknown dialect")

	// ErrMissingAPIKey is returned when a dialect needs a key and none is set.
	ErrMissingAPIKey = errors.New("API key is required")
)

// Config contains one vendor's settings.
type Config struct {
	ID          string
	Dialect     Dialect
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Provider implements domain.Provider over plain HTTP for one vendor.
type Provider struct {
	config  Config
	dialect dialect
	client  *http.Client
}

// NewProvider creates a provider for the configured dialect.
func NewProvider(config Config) (*Provider, error) {
	if config.ID == "" {
		return nil, errors.New("provider id is required")
	}

	d, ok := lookup(config.Dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrUnknownDialect, config.Dialect, Dialects())
	}

	if d.requiresKey && config.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", config.ID, ErrMissingAPIKey)
	}

	if config.BaseURL == "" {
		return nil, fmt.Errorf("%s: base URL is required", config.ID)
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Provider{
		config:  config,
		dialect: d,
		client:  client,
	}, nil
}

// ProviderID returns the provider identifier.
func (p *Provider) ProviderID() string {
	return p.config.ID
}

// Defaults returns the configured model parameters.
func (p *Provider) Defaults() domain.Defaults {
	return domain.Defaults{
		Model:       p.config.Model,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}
}

// Send issues one call to the vendor.
func (p *Provider) Send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if req == nil {
		return nil, domain.NewClientError(p.config.ID, "request cannot be nil", nil)
	}

	logCtx := observability.WithModel(observability.WithProvider(ctx, p.config.ID), req.Model)
	logger := observability.FromContext(logCtx)

	body, err := p.dialect.body(req)
	if err != nil {
		return nil, domain.NewClientError(p.config.ID, "failed to build request body", err)
	}

	endpoint := p.dialect.endpoint(p.config.BaseURL, req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewClientError(p.config.ID, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	p.dialect.headers(httpReq.Header, p.config.APIKey)

	logger.Debug("calling provider API")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, domain.AsError(p.config.ID, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	latency := time.Since(start)
	if err != nil {
		return nil, domain.AsError(p.config.ID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewStatusError(p.config.ID, resp.StatusCode, string(payload), p.dialect.overloaded...)
	}

	if !gjson.ValidBytes(payload) {
		return nil, domain.NewInvalidResponseError(p.config.ID, "response body is not valid JSON", nil)
	}

	parsed := gjson.ParseBytes(payload)
	content, ok := p.dialect.content(parsed)
	if !ok {
		return nil, domain.NewInvalidResponseError(p.config.ID, "response has no text content", nil)
	}

	model := parsed.Get("model").String()
	if model == "" {
		model = req.Model
	}

	tokens := p.dialect.tokens(parsed)
	logger.Debug("provider API call succeeded",
		observability.Int("tokens", tokens),
		observability.Duration("latency", latency),
	)

	return &domain.Response{
		Content:    content,
		Model:      model,
		ProviderID: p.config.ID,
		TokensUsed: tokens,
		LatencyMs:  latency.Milliseconds(),
	}, nil
}

// IsHealthy checks the vendor when the dialect has a liveness endpoint.
// Hosted vendors report healthy and are judged by their breaker instead.
func (p *Provider) IsHealthy(ctx context.Context) bool {
	if p.dialect.healthURL == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.dialect.healthURL(p.config.BaseURL), nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		observability.FromContext(observability.WithProvider(ctx, p.config.ID)).Debug("health check failed",
			observability.Error(err),
		)
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
