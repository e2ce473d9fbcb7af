package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/plangate/internal/provider"
	"github.com/davidbz/plangate/internal/provider/registry"
)

func TestBuiltins(t *testing.T) {
	specs := provider.Builtins()

	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.ID)
		require.Empty(t, spec.APIKey)
	}

	require.Equal(t, []string{"longcat", "deepseek", "openai", "gemini", "groq", "iflow", "claude", "ollama", "echo"}, ids)
}

func TestBuild(t *testing.T) {
	t.Run("should skip hosted vendor without key", func(t *testing.T) {
		for _, kind := range []provider.Kind{provider.KindOpenAI, provider.KindAnthropic, provider.KindGemini} {
			_, err := provider.Build(provider.Spec{ID: "x", Kind: kind, BaseURL: "http://x"})
			require.ErrorIs(t, err, provider.ErrNotConfigured, string(kind))
		}
	})

	t.Run("should build configured vendors", func(t *testing.T) {
		p, err := provider.Build(provider.Spec{ID: "deepseek", Kind: provider.KindOpenAI, APIKey: "k", BaseURL: "http://x", Model: "deepseek-chat"})
		require.NoError(t, err)
		require.Equal(t, "deepseek", p.ProviderID())
		require.Equal(t, "deepseek-chat", p.Defaults().Model)

		p, err = provider.Build(provider.Spec{ID: "claude", Kind: provider.KindAnthropic, APIKey: "k", BaseURL: "http://x"})
		require.NoError(t, err)
		require.Equal(t, "claude", p.ProviderID())
	})

	t.Run("should build keyless local vendors", func(t *testing.T) {
		p, err := provider.Build(provider.Spec{ID: "ollama", Kind: provider.KindOllama, BaseURL: "http://localhost:11434"})
		require.NoError(t, err)
		require.Equal(t, "ollama", p.ProviderID())

		p, err = provider.Build(provider.Spec{ID: "echo", Kind: provider.KindEcho})
		require.NoError(t, err)
		require.Equal(t, "echo", p.ProviderID())
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		_, err := provider.Build(provider.Spec{ID: "x", Kind: "carrier-pigeon"})
		require.Error(t, err)
		require.NotErrorIs(t, err, provider.ErrNotConfigured)
	})
}

func TestRegisterAll(t *testing.T) {
	reg := registry.NewRegistry()
	ctx := context.Background()

	specs := provider.Builtins()
	for i := range specs {
		if specs[i].ID == "groq" {
			specs[i].APIKey = "gsk-test"
		}
	}

	require.NoError(t, provider.RegisterAll(ctx, reg, specs))

	ids, err := reg.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"groq", "ollama", "echo"}, ids)
}
