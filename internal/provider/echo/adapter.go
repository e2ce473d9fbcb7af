// Package echo provides a testing provider that echoes back the prompt.
// It implements the domain.Provider interface without making external API calls,
// providing deterministic responses for testing and development purposes.
package echo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

const (
	providerName = "echo"
	modelName    = "echo4"
)

// Provider implements the domain.Provider interface for echo testing.
type Provider struct {
	name     string
	defaults domain.Defaults
}

// NewProvider creates a new echo provider.
// No configuration is required as this provider operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{
		name: providerName,
		defaults: domain.Defaults{
			Model:       modelName,
			MaxTokens:   8000,
			Temperature: 0.7,
		},
	}
}

// ProviderID returns the provider identifier.
func (p *Provider) ProviderID() string {
	return p.name
}

// Defaults returns the echo model parameters.
func (p *Provider) Defaults() domain.Defaults {
	return p.defaults
}

// IsHealthy always reports true.
func (p *Provider) IsHealthy(context.Context) bool {
	return true
}

// Send returns the prompt as the response content.
func (p *Provider) Send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if req == nil {
		return nil, domain.NewClientError(p.name, "request cannot be nil", nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.AsError(p.name, err)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	start := time.Now()
	content := buildEchoContent(req)
	tokens := countTokens(content)

	logger.Debug("echo completed", observability.Int("tokens", tokens))

	return &domain.Response{
		Content:    content,
		Model:      req.Model,
		ProviderID: p.name,
		TokensUsed: tokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// buildEchoContent constructs the echo response from the request.
func buildEchoContent(req *domain.Request) string {
	var builder strings.Builder
	if req.SystemPrompt != "" {
		builder.WriteString(fmt.Sprintf("[system]: %s\n", req.SystemPrompt))
	}
	builder.WriteString(fmt.Sprintf("[user]: %s\n", req.Prompt))
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
