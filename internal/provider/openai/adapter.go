// Package openai provides an adapter for OpenAI-compatible chat completion
// APIs using the official SDK. One adapter type serves every vendor that
// speaks the OpenAI wire format (OpenAI, DeepSeek, Groq, LongCat, iFlow and
// custom endpoints); vendors differ only by Config.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
)

const defaultTimeout = 60 * time.Second

// ErrMissingAPIKey is returned when the vendor has no API key configured.
var ErrMissingAPIKey = errors.New("API key is required")

// Provider implements the domain.Provider interface for an OpenAI-compatible vendor.
type Provider struct {
	client openai.Client
	config Config
}

// NewProvider creates a new OpenAI-compatible provider.
func NewProvider(config Config) (*Provider, error) {
	if config.ID == "" {
		return nil, errors.New("provider id is required")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", config.ID, ErrMissingAPIKey)
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithRequestTimeout(config.Timeout),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		config: config,
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

// IsHealthy reports true. Hosted vendors are judged by their breaker.
func (p *Provider) IsHealthy(context.Context) bool {
	return true
}

// Send sends a chat completion request and returns the first choice.
func (p *Provider) Send(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if req == nil {
		return nil, domain.NewClientError(p.config.ID, "request cannot be nil", nil)
	}

	logCtx := observability.WithModel(observability.WithProvider(ctx, p.config.ID), req.Model)
	logger := observability.FromContext(logCtx)
	logger.Debug("calling OpenAI-compatible API")

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, toSDKParams(req))
	latency := time.Since(start)
	if err != nil {
		return nil, p.toDomainError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewInvalidResponseError(p.config.ID, "response has no choices", nil)
	}

	message := resp.Choices[0].Message
	if !message.JSON.Content.Valid() {
		return nil, domain.NewInvalidResponseError(p.config.ID, "response has no message content", nil)
	}

	logger.Debug("OpenAI-compatible API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
		observability.Duration("latency", latency),
	)

	model := string(resp.Model)
	if model == "" {
		model = req.Model
	}

	return &domain.Response{
		Content:    message.Content,
		Model:      model,
		ProviderID: p.config.ID,
		TokensUsed: int(resp.Usage.TotalTokens),
		LatencyMs:  latency.Milliseconds(),
	}, nil
}

// toSDKParams converts domain request to SDK ChatCompletionNewParams.
func toSDKParams(req *domain.Request) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return params
}

// toDomainError maps SDK failures onto the typed error model.
func (p *Provider) toDomainError(err error) *domain.Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = err.Error()
		}
		return domain.NewStatusError(p.config.ID, apiErr.StatusCode, message)
	}

	if isDecodeError(err) {
		return domain.NewInvalidResponseError(p.config.ID, "malformed response body", err)
	}

	return domain.AsError(p.config.ID, err)
}

// isDecodeError reports whether the SDK got a reply it could not parse.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
