package planner_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/plangate/internal/async"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/mocks"
	"github.com/davidbz/plangate/internal/planner"
	"github.com/davidbz/plangate/internal/provider/echo"
	"github.com/davidbz/plangate/internal/provider/httpapi"
	"github.com/davidbz/plangate/internal/provider/registry"
	"github.com/davidbz/plangate/internal/resilience"
	"github.com/davidbz/plangate/internal/routing"
)

type fixture struct {
	registry *registry.Registry
	breakers *resilience.BreakerSet
	planner  *planner.Planner
}

func newFixture(t *testing.T, defaultProvider string, providers []domain.Provider, opts ...planner.Option) *fixture {
	t.Helper()

	ctx := context.Background()
	reg := registry.NewRegistry()
	for _, p := range providers {
		require.NoError(t, reg.Register(ctx, p))
	}

	breakers := resilience.NewBreakerSet(resilience.CircuitBreakerConfig{FailureThreshold: 5})
	retry := resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond})
	pool := async.NewPool(4)

	clients := resilience.NewClientSet(reg, breakers,
		resilience.WithRetry(retry),
		resilience.WithPool(pool),
	)

	return &fixture{
		registry: reg,
		breakers: breakers,
		planner: planner.New(
			routing.NewRouter(reg, defaultProvider, nil),
			clients,
			resilience.NewFallback(resilience.Hooks{}),
			pool,
			opts...,
		),
	}
}

func newMockProvider(t *testing.T, id string) *mocks.MockProvider {
	p := mocks.NewMockProvider(t)
	p.EXPECT().ProviderID().Return(id).Maybe()
	p.EXPECT().Defaults().Return(domain.Defaults{Model: id + "-model", MaxTokens: 100, Temperature: 0.7}).Maybe()
	return p
}

func newOllamaServer(t *testing.T, status int, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func newOllamaProvider(t *testing.T, id, baseURL string) domain.Provider {
	t.Helper()

	p, err := httpapi.NewProvider(httpapi.Config{
		ID:          id,
		Dialect:     httpapi.DialectOllama,
		BaseURL:     baseURL,
		Model:       id + "-model",
		MaxTokens:   512,
		Temperature: 0.7,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	return p
}

func await(t *testing.T, future *async.Future[*planner.PlanResult]) *planner.PlanResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := future.Await(ctx)
	require.NoError(t, err)
	return result
}

func TestPlanner_PlanAsync(t *testing.T) {
	t.Run("should fall back to the default provider when the primary keeps failing", func(t *testing.T) {
		acmeServer, acmeHits := newOllamaServer(t, http.StatusServiceUnavailable, `{"error":"overloaded"}`)
		defaultServer, defaultHits := newOllamaServer(t, http.StatusOK, `{
			"model": "default-model",
			"message": {"role": "assistant", "content": "1. find iron ore\n2. mine 5 iron"},
			"eval_count": 12
		}`)

		f := newFixture(t, "default", []domain.Provider{
			newOllamaProvider(t, "acme", acmeServer.URL),
			newOllamaProvider(t, "default", defaultServer.URL),
		})

		result := await(t, f.planner.PlanAsync(context.Background(), "mine 5 iron", "acme", domain.ModelParams{}))

		require.NotNil(t, result)
		require.Equal(t, "1. find iron ore\n2. mine 5 iron", result.Plan)
		require.Equal(t, "default", result.ProviderID)
		require.Equal(t, 12, result.TokensUsed)
		require.Equal(t, int32(3), acmeHits.Load())
		require.Equal(t, int32(1), defaultHits.Load())
	})

	t.Run("should resolve to nil when every provider fails", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(nil, domain.NewStatusError("acme", http.StatusBadRequest, "bad"))

		f := newFixture(t, "acme", []domain.Provider{acme})

		result := await(t, f.planner.PlanAsync(context.Background(), "mine 5 iron", "acme", domain.ModelParams{}))

		require.Nil(t, result)
	})

	t.Run("should resolve to nil when the plan is blank", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(&domain.Response{Content: "   ", ProviderID: "acme"}, nil).
			Once()

		f := newFixture(t, "acme", []domain.Provider{acme})

		result := await(t, f.planner.PlanAsync(context.Background(), "mine 5 iron", "acme", domain.ModelParams{}))

		require.Nil(t, result)
	})

	t.Run("should substitute the default provider for an unknown name", func(t *testing.T) {
		f := newFixture(t, "echo", []domain.Provider{echo.NewProvider()})

		result := await(t, f.planner.PlanAsync(context.Background(), "mine 5 iron", "Unknown", domain.ModelParams{}))

		require.NotNil(t, result)
		require.Equal(t, "echo", result.ProviderID)
		require.Equal(t, "[user]: mine 5 iron", result.Plan)
	})

	t.Run("should skip a provider whose breaker is open", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		f := newFixture(t, "echo", []domain.Provider{acme, echo.NewProvider()})

		for range 5 {
			ticket, err := f.breakers.Get("acme").Allow()
			require.NoError(t, err)
			f.breakers.Get("acme").Failure(ticket)
		}

		result := await(t, f.planner.PlanAsync(context.Background(), "mine 5 iron", "acme", domain.ModelParams{}))

		require.NotNil(t, result)
		require.Equal(t, "echo", result.ProviderID)
		acme.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("should fail when the context ends before a worker is free", func(t *testing.T) {
		f := newFixture(t, "echo", []domain.Provider{echo.NewProvider()})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.planner.PlanAsync(ctx, "mine 5 iron", "echo", domain.ModelParams{}).Await(context.Background())

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPlanner_Plan(t *testing.T) {
	ctx := context.Background()

	t.Run("should try the default provider once after the primary fails", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(nil, domain.NewStatusError("acme", http.StatusUnauthorized, "bad key")).
			Once()

		f := newFixture(t, "echo", []domain.Provider{acme, echo.NewProvider()})

		result, err := f.planner.Plan(ctx, "mine 5 iron", "ACME", domain.ModelParams{})

		require.NoError(t, err)
		require.Equal(t, "echo", result.ProviderID)
	})

	t.Run("should return the primary error when it is the default", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(nil, domain.NewStatusError("acme", http.StatusUnauthorized, "bad key")).
			Once()

		f := newFixture(t, "acme", []domain.Provider{acme})

		result, err := f.planner.Plan(ctx, "mine 5 iron", "acme", domain.ModelParams{})

		require.Nil(t, result)
		require.Equal(t, domain.ErrorTypeAuthError, domain.ErrorTypeOf(err))
	})

	t.Run("should surface the default provider error when both fail", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(nil, domain.NewStatusError("acme", http.StatusBadRequest, "bad")).
			Once()
		backup := newMockProvider(t, "backup")
		backup.EXPECT().Send(mock.Anything, mock.Anything).
			Return(nil, domain.NewStatusError("backup", http.StatusForbidden, "denied")).
			Once()

		f := newFixture(t, "backup", []domain.Provider{acme, backup})

		_, err := f.planner.Plan(ctx, "mine 5 iron", "acme", domain.ModelParams{})

		var typed *domain.Error
		require.ErrorAs(t, err, &typed)
		require.Equal(t, "backup", typed.ProviderID)
	})

	t.Run("should complete params from config and provider defaults", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.MatchedBy(func(req *domain.Request) bool {
			return req.SystemPrompt == "you plan tasks" &&
				req.Model == "acme-model" &&
				req.MaxTokens == 64 &&
				req.Temperature == 0.7
		})).Return(&domain.Response{Content: "plan", ProviderID: "acme"}, nil).Once()

		f := newFixture(t, "acme", []domain.Provider{acme},
			planner.WithConfig(planner.Config{SystemPrompt: "you plan tasks"}))

		result, err := f.planner.Plan(ctx, "mine 5 iron", "acme", domain.ModelParams{MaxTokens: 64})

		require.NoError(t, err)
		require.Equal(t, "plan", result.Plan)
	})

	t.Run("should pass an explicit zero temperature through", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.MatchedBy(func(req *domain.Request) bool {
			return req.Temperature == 0 && req.MaxTokens == 100
		})).Return(&domain.Response{Content: "plan", ProviderID: "acme"}, nil).Once()

		f := newFixture(t, "acme", []domain.Provider{acme})

		_, err := f.planner.Plan(ctx, "mine 5 iron", "acme", domain.ModelParams{Temperature: domain.Float(0)})

		require.NoError(t, err)
	})

	t.Run("should use the configured provider when none is named", func(t *testing.T) {
		acme := newMockProvider(t, "acme")
		acme.EXPECT().Send(mock.Anything, mock.Anything).
			Return(&domain.Response{Content: "plan", ProviderID: "acme"}, nil).
			Once()

		f := newFixture(t, "echo", []domain.Provider{acme, echo.NewProvider()},
			planner.WithConfig(planner.Config{Provider: "acme"}))

		result, err := f.planner.Plan(ctx, "mine 5 iron", "", domain.ModelParams{})

		require.NoError(t, err)
		require.Equal(t, "acme", result.ProviderID)
	})

	t.Run("should use a custom interpreter", func(t *testing.T) {
		f := newFixture(t, "echo", []domain.Provider{echo.NewProvider()},
			planner.WithInterpreter(rejectAll{}))

		_, err := f.planner.Plan(ctx, "mine 5 iron", "echo", domain.ModelParams{})

		require.ErrorIs(t, err, errRejected)
	})
}

func TestPlanner_IsHealthy(t *testing.T) {
	ctx := context.Background()

	t.Run("should delegate to the resolved provider", func(t *testing.T) {
		f := newFixture(t, "echo", []domain.Provider{echo.NewProvider()})

		require.True(t, f.planner.IsHealthy(ctx, "echo"))
		require.True(t, f.planner.IsHealthy(ctx, "unknown"))
	})

	t.Run("should report unhealthy while the breaker is open", func(t *testing.T) {
		f := newFixture(t, "echo", []domain.Provider{echo.NewProvider()})

		for range 5 {
			ticket, err := f.breakers.Get("echo").Allow()
			require.NoError(t, err)
			f.breakers.Get("echo").Failure(ticket)
		}

		require.False(t, f.planner.IsHealthy(ctx, "echo"))
	})

	t.Run("should report unhealthy when nothing is registered", func(t *testing.T) {
		f := newFixture(t, "echo", nil)

		require.False(t, f.planner.IsHealthy(ctx, "echo"))
	})
}

var errRejected = errors.New("rejected")

type rejectAll struct{}

func (rejectAll) Interpret(context.Context, *domain.Response) (string, error) {
	return "", errRejected
}
