// Package provider holds the vendor catalog and builds domain.Provider
// adapters from it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
	"github.com/davidbz/plangate/internal/provider/echo"
	"github.com/davidbz/plangate/internal/provider/httpapi"
	"github.com/davidbz/plangate/internal/provider/openai"
)

// ErrNotConfigured indicates that a provider is not configured and should be skipped.
var ErrNotConfigured = errors.New("provider not configured")

// Kind selects the adapter used for a vendor.
type Kind string

const (
	// KindOpenAI covers every OpenAI-compatible chat completions API.
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = Kind(httpapi.DialectAnthropic)
	KindGemini    Kind = Kind(httpapi.DialectGemini)
	KindOllama    Kind = Kind(httpapi.DialectOllama)
	KindEcho      Kind = "echo"
)

const (
	hostedTimeout = 60 * time.Second
	localTimeout  = 120 * time.Second
)

// Spec describes one vendor.
type Spec struct {
	ID          string        `yaml:"id"`
	Kind        Kind          `yaml:"kind"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature *float64      `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

func (s Spec) temperature() float64 {
	if s.Temperature == nil {
		return 0
	}
	return *s.Temperature
}

// Builtins returns the built-in vendor catalog in preference order. API keys
// are left empty.
func Builtins() []Spec {
	return []Spec{
		{ID: "longcat", Kind: KindOpenAI, BaseURL: "https://api.longcat.chat/openai/v1", Model: "LongCat-Flash-Thinking-2601", Timeout: hostedTimeout},
		{ID: "deepseek", Kind: KindOpenAI, BaseURL: "https://api.deepseek.com/v1", Model: "deepseek-chat", Timeout: hostedTimeout},
		{ID: "openai", Kind: KindOpenAI, BaseURL: "https://api.openai.com/v1", Model: "gpt-5-mini-2025-08-07", Timeout: hostedTimeout},
		{ID: "gemini", Kind: KindGemini, BaseURL: "https://generativelanguage.googleapis.com/v1beta", Model: "gemini-3-flash-preview", Timeout: hostedTimeout},
		{ID: "groq", Kind: KindOpenAI, BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.1-8b-instant", Timeout: hostedTimeout},
		{ID: "iflow", Kind: KindOpenAI, BaseURL: "https://apis.iflow.cn/v1", Model: "qwen3-max", Timeout: hostedTimeout},
		{ID: "claude", Kind: KindAnthropic, BaseURL: "https://api.anthropic.com/v1/messages", Model: "claude-3-5-haiku-latest", Timeout: hostedTimeout},
		{ID: "ollama", Kind: KindOllama, BaseURL: "http://localhost:11434", Model: "llama3.1", Timeout: localTimeout},
		{ID: "echo", Kind: KindEcho, Model: "echo4"},
	}
}

// Build creates the adapter for spec. It returns ErrNotConfigured when a
// hosted vendor has no API key.
func Build(spec Spec) (domain.Provider, error) {
	switch Kind(strings.ToLower(string(spec.Kind))) {
	case KindOpenAI:
		if spec.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", spec.ID, ErrNotConfigured)
		}
		return openai.NewProvider(openai.Config{
			ID:          spec.ID,
			APIKey:      spec.APIKey,
			BaseURL:     spec.BaseURL,
			Model:       spec.Model,
			MaxTokens:   spec.MaxTokens,
			Temperature: spec.temperature(),
			Timeout:     spec.Timeout,
		})

	case KindAnthropic, KindGemini, KindOllama:
		p, err := httpapi.NewProvider(httpapi.Config{
			ID:          spec.ID,
			Dialect:     httpapi.Dialect(spec.Kind),
			APIKey:      spec.APIKey,
			BaseURL:     spec.BaseURL,
			Model:       spec.Model,
			MaxTokens:   spec.MaxTokens,
			Temperature: spec.temperature(),
			Timeout:     spec.Timeout,
		})
		if errors.Is(err, httpapi.ErrMissingAPIKey) {
			return nil, fmt.Errorf("%s: %w", spec.ID, ErrNotConfigured)
		}
		return p, err

	case KindEcho:
		return echo.NewProvider(), nil

	default:
		return nil, fmt.Errorf("%s: unknown provider kind %q", spec.ID, spec.Kind)
	}
}

// RegisterAll builds every spec and registers the configured ones.
// Unconfigured vendors are skipped; any other failure is returned.
func RegisterAll(ctx context.Context, reg domain.ProviderRegistry, specs []Spec) error {
	logger := observability.FromContext(ctx)

	for _, spec := range specs {
		p, err := Build(spec)
		if errors.Is(err, ErrNotConfigured) {
			logger.Info("provider not configured, skipping",
				observability.String("provider", spec.ID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to build provider %s: %w", spec.ID, err)
		}

		if err := reg.Register(ctx, p); err != nil {
			return fmt.Errorf("failed to register provider %s: %w", spec.ID, err)
		}

		logger.Info("provider registered",
			observability.String("provider", spec.ID),
			observability.String("kind", string(spec.Kind)),
			observability.String("model", spec.Model))
	}

	return nil
}
