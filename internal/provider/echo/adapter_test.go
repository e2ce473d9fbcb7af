package echo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/provider/echo"
)

func TestNewProvider(t *testing.T) {
	provider := echo.NewProvider()

	require.NotNil(t, provider)
	require.Equal(t, "echo", provider.ProviderID())
	require.Equal(t, "echo4", provider.Defaults().Model)
	require.True(t, provider.IsHealthy(context.Background()))
}

func TestSend_Success(t *testing.T) {
	provider := echo.NewProvider()

	resp, err := provider.Send(context.Background(), &domain.Request{
		Prompt: "Hello world",
		Model:  "echo4",
	})

	require.NoError(t, err)
	require.Equal(t, "echo4", resp.Model)
	require.Equal(t, "echo", resp.ProviderID)
	require.Equal(t, "[user]: Hello world\n", resp.Content)
	require.Equal(t, 3, resp.TokensUsed) // "[user]:" "Hello" "world" = 3 words
	require.False(t, resp.FromCache)
}

func TestSend_WithSystemPrompt(t *testing.T) {
	provider := echo.NewProvider()

	resp, err := provider.Send(context.Background(), &domain.Request{
		Prompt:       "Hello",
		SystemPrompt: "Be brief",
		Model:        "echo4",
	})

	require.NoError(t, err)
	require.Equal(t, "[system]: Be brief\n[user]: Hello\n", resp.Content)
}

func TestSend_NilRequest(t *testing.T) {
	provider := echo.NewProvider()

	resp, err := provider.Send(context.Background(), nil)

	require.Error(t, err)
	require.Nil(t, resp)
	require.Equal(t, domain.ErrorTypeClientError, domain.ErrorTypeOf(err))
}

func TestSend_CancelledContext(t *testing.T) {
	provider := echo.NewProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Send(ctx, &domain.Request{Prompt: "Hello"})

	require.ErrorIs(t, err, context.Canceled)
}
