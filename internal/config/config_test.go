package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv(TsugixConfigEnv, filepath.Join(t.TempDir(), "missing.json"))
	cfg := Load()
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 5, cfg.MaxConcurrent)
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	t.Setenv(TsugixConfigEnv, path)

	cfg := Load()
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsugix.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"claude-3-opus","max_concurrent":9}`), 0o644))
	t.Setenv(TsugixConfigEnv, path)

	cfg := Load()
	assert.Equal(t, "claude-3-opus", cfg.Model)
	assert.Equal(t, 9, cfg.MaxConcurrent)
	assert.Equal(t, 60, cfg.RequestsPerMinute) // unset, stays default
}

func TestLoad_CredentialsFromEnvNotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsugix.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":"x"}`), 0o644))
	t.Setenv(TsugixConfigEnv, path)
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg := Load()
	assert.Equal(t, "sk-test-key", cfg.OpenAIAPIKey)
}

func TestLoad_IgnorePatternsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsugix.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ignore_patterns":["vendor/**","**/*_generated.go"]}`), 0o644))
	t.Setenv(TsugixConfigEnv, path)

	cfg := Load()
	assert.Equal(t, []string{"vendor/**", "**/*_generated.go"}, cfg.IgnorePatterns)
}

func TestResolveWritePath_HonorsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv(TsugixConfigEnv, path)
	assert.Equal(t, path, ResolveWritePath())
}
