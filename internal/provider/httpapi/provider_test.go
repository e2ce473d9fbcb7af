package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/provider/httpapi"
)

type captured struct {
	method string
	path   string
	header http.Header
	body   gjson.Result
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()

	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.header = r.Header.Clone()
		got.body = gjson.ParseBytes(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return server, got
}

func newProvider(t *testing.T, dialect httpapi.Dialect, baseURL string) *httpapi.Provider {
	t.Helper()

	p, err := httpapi.NewProvider(httpapi.Config{
		ID:          string(dialect) + "-test",
		Dialect:     dialect,
		APIKey:      "secret",
		BaseURL:     baseURL,
		Model:       "test-model",
		MaxTokens:   256,
		Temperature: 0.5,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return p
}

func request() *domain.Request {
	return &domain.Request{
		Prompt:       "build a shelter",
		SystemPrompt: "you plan tasks",
		Model:        "test-model",
		MaxTokens:    256,
		Temperature:  0.5,
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("should reject unknown dialect", func(t *testing.T) {
		_, err := httpapi.NewProvider(httpapi.Config{ID: "x", Dialect: "soap", BaseURL: "http://x"})
		require.ErrorIs(t, err, httpapi.ErrUnknownDialect)
		require.ErrorContains(t, err, "[anthropic gemini ollama]")
	})

	t.Run("should require a key for hosted dialects", func(t *testing.T) {
		_, err := httpapi.NewProvider(httpapi.Config{ID: "claude", Dialect: httpapi.DialectAnthropic, BaseURL: "http://x"})
		require.ErrorIs(t, err, httpapi.ErrMissingAPIKey)
	})

	t.Run("should not require a key for ollama", func(t *testing.T) {
		p, err := httpapi.NewProvider(httpapi.Config{ID: "ollama", Dialect: httpapi.DialectOllama, BaseURL: "http://localhost:11434/"})
		require.NoError(t, err)
		require.Equal(t, "ollama", p.ProviderID())
	})

	t.Run("should expose defaults", func(t *testing.T) {
		p := newProvider(t, httpapi.DialectOllama, "http://localhost:11434")
		require.Equal(t, domain.Defaults{Model: "test-model", MaxTokens: 256, Temperature: 0.5}, p.Defaults())
	})
}

func TestProvider_Send_Anthropic(t *testing.T) {
	t.Run("should send messages request and parse text block", func(t *testing.T) {
		server, got := newServer(t, http.StatusOK, `{
			"model": "claude-test",
			"content": [{"type": "text", "text": "1. gather wood"}],
			"usage": {"input_tokens": 12, "output_tokens": 30}
		}`)
		p := newProvider(t, httpapi.DialectAnthropic, server.URL+"/v1/messages")

		resp, err := p.Send(context.Background(), request())

		require.NoError(t, err)
		require.Equal(t, "1. gather wood", resp.Content)
		require.Equal(t, "claude-test", resp.Model)
		require.Equal(t, 42, resp.TokensUsed)
		require.Equal(t, "anthropic-test", resp.ProviderID)
		require.False(t, resp.FromCache)

		require.Equal(t, http.MethodPost, got.method)
		require.Equal(t, "/v1/messages", got.path)
		require.Equal(t, "secret", got.header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", got.header.Get("anthropic-version"))
		require.Equal(t, "test-model", got.body.Get("model").String())
		require.Equal(t, int64(256), got.body.Get("max_tokens").Int())
		require.Equal(t, "you plan tasks", got.body.Get("system").String())
		require.Equal(t, "user", got.body.Get("messages.0.role").String())
		require.Equal(t, "build a shelter", got.body.Get("messages.0.content").String())
	})

	t.Run("should treat 529 as retryable server error", func(t *testing.T) {
		server, _ := newServer(t, 529, `{"error":{"type":"overloaded_error"}}`)
		p := newProvider(t, httpapi.DialectAnthropic, server.URL)

		_, err := p.Send(context.Background(), request())

		var typed *domain.Error
		require.ErrorAs(t, err, &typed)
		require.Equal(t, domain.ErrorTypeServerError, typed.Type)
		require.Equal(t, 529, typed.StatusCode)
		require.True(t, typed.Retryable)
	})

	t.Run("should reject a non-text first block", func(t *testing.T) {
		server, _ := newServer(t, http.StatusOK, `{"content":[{"type":"tool_use","id":"x"}]}`)
		p := newProvider(t, httpapi.DialectAnthropic, server.URL)

		_, err := p.Send(context.Background(), request())

		require.Equal(t, domain.ErrorTypeInvalidResponse, domain.ErrorTypeOf(err))
	})

	t.Run("should omit system when not set", func(t *testing.T) {
		server, got := newServer(t, http.StatusOK, `{"content":[{"type":"text","text":"ok"}]}`)
		p := newProvider(t, httpapi.DialectAnthropic, server.URL)

		req := request()
		req.SystemPrompt = ""
		_, err := p.Send(context.Background(), req)

		require.NoError(t, err)
		require.False(t, got.body.Get("system").Exists())
	})
}

func TestProvider_Send_Gemini(t *testing.T) {
	server, got := newServer(t, http.StatusOK, `{
		"candidates": [{"content": {"parts": [{"text": "dig a hole"}]}}],
		"usageMetadata": {"totalTokenCount": 17}
	}`)
	p := newProvider(t, httpapi.DialectGemini, server.URL+"/v1beta")

	resp, err := p.Send(context.Background(), request())

	require.NoError(t, err)
	require.Equal(t, "dig a hole", resp.Content)
	require.Equal(t, "test-model", resp.Model)
	require.Equal(t, 17, resp.TokensUsed)

	require.Equal(t, "/v1beta/models/test-model:generateContent", got.path)
	require.Equal(t, "secret", got.header.Get("x-goog-api-key"))
	require.Equal(t, "build a shelter", got.body.Get("contents.0.parts.0.text").String())
	require.Equal(t, "you plan tasks", got.body.Get("systemInstruction.parts.0.text").String())
	require.Equal(t, int64(256), got.body.Get("generationConfig.maxOutputTokens").Int())
}

func TestProvider_Send_Ollama(t *testing.T) {
	t.Run("should send chat request with options", func(t *testing.T) {
		server, got := newServer(t, http.StatusOK, `{
			"model": "llama3",
			"message": {"role": "assistant", "content": "mine stone"},
			"eval_count": 9
		}`)
		p := newProvider(t, httpapi.DialectOllama, server.URL)

		resp, err := p.Send(context.Background(), request())

		require.NoError(t, err)
		require.Equal(t, "mine stone", resp.Content)
		require.Equal(t, 9, resp.TokensUsed)

		require.Equal(t, "/api/chat", got.path)
		require.Empty(t, got.header.Get("Authorization"))
		require.False(t, got.body.Get("stream").Bool())
		require.Equal(t, "system", got.body.Get("messages.0.role").String())
		require.Equal(t, "user", got.body.Get("messages.1.role").String())
		require.Equal(t, int64(256), got.body.Get("options.num_predict").Int())
		require.InDelta(t, 0.5, got.body.Get("options.temperature").Float(), 0.0001)
	})

	t.Run("should report healthy when root answers 200", func(t *testing.T) {
		server, got := newServer(t, http.StatusOK, ``)
		p := newProvider(t, httpapi.DialectOllama, server.URL)

		require.True(t, p.IsHealthy(context.Background()))
		require.Equal(t, http.MethodHead, got.method)
	})

	t.Run("should report unhealthy when unreachable", func(t *testing.T) {
		server, _ := newServer(t, http.StatusOK, ``)
		server.Close()
		p := newProvider(t, httpapi.DialectOllama, server.URL)

		require.False(t, p.IsHealthy(context.Background()))
	})
}

func TestProvider_Send_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reply     string
		errType   domain.ErrorType
		retryable bool
	}{
		{"should map 401 to auth error", http.StatusUnauthorized, `{}`, domain.ErrorTypeAuthError, false},
		{"should map 403 to auth error", http.StatusForbidden, `{}`, domain.ErrorTypeAuthError, false},
		{"should map 429 to rate limit", http.StatusTooManyRequests, `{}`, domain.ErrorTypeRateLimit, true},
		{"should map 400 to client error", http.StatusBadRequest, `{}`, domain.ErrorTypeClientError, false},
		{"should map 408 to timeout", http.StatusRequestTimeout, `{}`, domain.ErrorTypeTimeout, false},
		{"should map 503 to server error", http.StatusServiceUnavailable, `{}`, domain.ErrorTypeServerError, true},
		{"should reject invalid JSON", http.StatusOK, `not json`, domain.ErrorTypeInvalidResponse, false},
		{"should reject missing content", http.StatusOK, `{"message":{}}`, domain.ErrorTypeInvalidResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newServer(t, tt.status, tt.reply)
			p := newProvider(t, httpapi.DialectOllama, server.URL)

			_, err := p.Send(context.Background(), request())

			var typed *domain.Error
			require.ErrorAs(t, err, &typed)
			require.Equal(t, tt.errType, typed.Type)
			require.Equal(t, tt.retryable, typed.Retryable)
			require.Equal(t, "ollama-test", typed.ProviderID)
		})
	}

	t.Run("should truncate long error bodies", func(t *testing.T) {
		server, _ := newServer(t, http.StatusBadRequest, strings.Repeat("x", 500))
		p := newProvider(t, httpapi.DialectOllama, server.URL)

		_, err := p.Send(context.Background(), request())

		var typed *domain.Error
		require.ErrorAs(t, err, &typed)
		require.Len(t, typed.Message, 203)
	})

	t.Run("should map an expired deadline to timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer server.Close()

		p, err := httpapi.NewProvider(httpapi.Config{
			ID:      "slow",
			Dialect: httpapi.DialectOllama,
			BaseURL: server.URL,
			Model:   "m",
			Timeout: 20 * time.Millisecond,
		})
		require.NoError(t, err)

		_, err = p.Send(context.Background(), request())

		var typed *domain.Error
		require.ErrorAs(t, err, &typed)
		require.Equal(t, domain.ErrorTypeTimeout, typed.Type)
		require.True(t, typed.Retryable)
	})
}
