package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/plangate/internal/observability"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = observability.WithProvider(ctx, "groq")
	ctx = observability.WithModel(ctx, "llama-3.1-8b-instant")

	require.Equal(t, "groq", observability.GetProvider(ctx))
	require.Equal(t, "llama-3.1-8b-instant", observability.GetModel(ctx))
	require.Empty(t, observability.GetRequestID(ctx))
}

func TestEnsureRequestScope(t *testing.T) {
	t.Run("should generate ids when missing", func(t *testing.T) {
		ctx := observability.EnsureRequestScope(context.Background())

		require.Len(t, observability.GetTraceID(ctx), 32)
		require.Len(t, observability.GetSpanID(ctx), 16)
		require.NotEmpty(t, observability.GetRequestID(ctx))
	})

	t.Run("should keep an existing request id", func(t *testing.T) {
		ctx := observability.WithRequestID(context.Background(), "req-1")

		scoped := observability.EnsureRequestScope(ctx)

		require.Equal(t, "req-1", observability.GetRequestID(scoped))
		require.Empty(t, observability.GetTraceID(scoped))
	})
}
