package resilience_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/plangate/internal/provider/echo"
	"github.com/davidbz/plangate/internal/provider/registry"
	"github.com/davidbz/plangate/internal/resilience"
)

func TestClientSet(t *testing.T) {
	ctx := context.Background()

	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(ctx, echo.NewProvider()))

	set := resilience.NewClientSet(reg,
		resilience.NewBreakerSet(resilience.CircuitBreakerConfig{FailureThreshold: 2}),
		resilience.WithRetry(fastRetry()),
	)

	t.Run("should return the same client for any casing", func(t *testing.T) {
		first, err := set.Client(ctx, "echo")
		require.NoError(t, err)

		second, err := set.Client(ctx, "ECHO")
		require.NoError(t, err)

		require.Same(t, first, second)
		require.Equal(t, "echo", first.ProviderID())
	})

	t.Run("should share the breaker from the breaker set", func(t *testing.T) {
		breakers := resilience.NewBreakerSet(resilience.CircuitBreakerConfig{FailureThreshold: 2})
		set := resilience.NewClientSet(reg, breakers, resilience.WithRetry(fastRetry()))

		client, err := set.Client(ctx, "echo")
		require.NoError(t, err)

		ticket, err := breakers.Get("echo").Allow()
		require.NoError(t, err)
		breakers.Get("echo").Failure(ticket)
		ticket, err = breakers.Get("echo").Allow()
		require.NoError(t, err)
		breakers.Get("echo").Failure(ticket)

		require.Equal(t, resilience.StateOpen, client.BreakerState())
	})

	t.Run("should fail for an unregistered provider", func(t *testing.T) {
		_, err := set.Client(ctx, "acme")
		require.ErrorIs(t, err, registry.ErrProviderNotFound)
	})

	t.Run("should resolve a chain in order", func(t *testing.T) {
		clients, err := set.Clients(ctx, []string{"echo"})
		require.NoError(t, err)
		require.Len(t, clients, 1)

		_, err = set.Clients(ctx, []string{"echo", "acme"})
		require.Error(t, err)
	})
}
