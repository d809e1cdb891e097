package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_MODEL", "OPENROUTER_MODEL",
		"OPENAI_API_BASE", "OPENAI_BASE_URL",
		"OPENROUTER_API_BASE", "OPENROUTER_BASE_URL",
		"OPENAI_API_KEY", "OPENROUTER_API_KEY",
		"OPENAI_API_KEY_HEADER", "OPENAI_ORG",
		"OPENROUTER_SITE_URL", "OPENROUTER_TITLE",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveAPIConfigOpenAIDefaults(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := resolveAPIConfig("gpt-4o-mini")
	require.NoError(t, err)
	require.Equal(t, providerOpenAI, cfg.Kind)
	require.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	require.Equal(t, "sk-test", cfg.APIKey)
	require.Equal(t, "Authorization", cfg.HeaderName)
	require.Equal(t, "Bearer ", cfg.HeaderPrefix)
	require.Empty(t, cfg.ExtraHeaders)
}

func TestResolveAPIConfigSlashModelMeansOpenRouter(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "or-test")

	cfg, err := resolveAPIConfig("meta-llama/llama-3.1-8b-instruct")
	require.NoError(t, err)
	require.Equal(t, providerOpenRouter, cfg.Kind)
	require.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL)
	require.Equal(t, "https://ai-banker.dev", cfg.ExtraHeaders["HTTP-Referer"])
	require.Equal(t, "AI Banker", cfg.ExtraHeaders["X-Title"])
}

func TestResolveAPIConfigOpenRouterBaseURLWins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_BASE", "https://openrouter.ai/api/v1/")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := resolveAPIConfig("gpt-4o-mini")
	require.NoError(t, err)
	require.Equal(t, providerOpenRouter, cfg.Kind, "an openrouter base URL flips the provider")
	require.Equal(t, "https://openrouter.ai/api/v1", cfg.BaseURL, "trailing slash stripped")
}

func TestResolveAPIConfigKeyPreference(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("OPENROUTER_API_KEY", "or-router")

	cfg, err := resolveAPIConfig("gpt-4o-mini")
	require.NoError(t, err)
	require.Equal(t, "sk-openai", cfg.APIKey)

	cfg, err = resolveAPIConfig("openai/gpt-4o-mini")
	require.NoError(t, err)
	require.Equal(t, "or-router", cfg.APIKey)
}

func TestResolveAPIConfigModelFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENROUTER_MODEL", "qwen/qwen-2.5-72b-instruct")
	t.Setenv("OPENROUTER_API_KEY", "or-test")

	cfg, err := resolveAPIConfig("")
	require.NoError(t, err)
	require.Equal(t, providerOpenRouter, cfg.Kind)
	require.Equal(t, "qwen/qwen-2.5-72b-instruct", cfg.Model)
}

func TestResolveAPIConfigHeaderOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "or-test")
	t.Setenv("OPENROUTER_SITE_URL", "https://example.test")
	t.Setenv("OPENROUTER_TITLE", "My Table")

	cfg, err := resolveAPIConfig("x/y")
	require.NoError(t, err)
	require.Equal(t, "https://example.test", cfg.ExtraHeaders["HTTP-Referer"])
	require.Equal(t, "https://example.test", cfg.ExtraHeaders["Referer"])
	require.Equal(t, "My Table", cfg.ExtraHeaders["X-Title"])
}

func TestResolveAPIConfigErrors(t *testing.T) {
	clearProviderEnv(t)
	_, err := resolveAPIConfig("")
	require.Error(t, err, "no model anywhere")

	_, err = resolveAPIConfig("gpt-4o-mini")
	require.Error(t, err, "no API key anywhere")
}
