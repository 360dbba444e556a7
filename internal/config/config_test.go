package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"AQUACHECK_CONFIG", "AQUACHECK_DATA", "AQUACHECK_DB", "AQUACHECK_LOG_FILE",
		"AQUACHECK_LOG_LEVEL", "AQUACHECK_ADDR", "AQUACHECK_ALLOWED_ORIGINS",
		"AQUACHECK_SPEECH_ENGINE", "AQUACHECK_MUTE", "AQUACHECK_TREES", "AQUACHECK_SEED",
		"AQUACHECK_LLM_PROVIDER", "AQUACHECK_LLM_API_KEY", "AQUACHECK_LLM_MODEL", "AQUACHECK_LLM_BASE_URL",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "water_potability.csv", cfg.DataPath)
	assert.Equal(t, 100, cfg.Model.Forest.Trees)
	assert.Equal(t, uint64(42), cfg.Model.Forest.Seed)
	assert.Equal(t, 0.2, cfg.Model.TestFraction)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Speech.Mute)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "aquacheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data: /srv/water.csv
model:
  forest:
    trees: 25
speech:
  mute: true
  engine: espeak
llm:
  provider: openai
  model: gpt-4o
  max_tokens: 150
  timeout: 5s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/water.csv", cfg.DataPath)
	assert.Equal(t, 25, cfg.Model.Forest.Trees)
	assert.Equal(t, 2, cfg.Model.Forest.MinSamplesSplit, "unset keys keep defaults")
	assert.True(t, cfg.Speech.Mute)
	assert.Equal(t, "espeak", cfg.Speech.Engine)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 150, cfg.LLM.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.Retry.MaxAttempts, "unset keys keep defaults")
}

func TestLoad_DefaultPathIsOptional(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "aquacheck"), 0o755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("data: from-xdg.csv\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-xdg.csv", cfg.DataPath)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: file.csv\nllm:\n  provider: gemini\n"), 0o644))
	t.Setenv("AQUACHECK_CONFIG", path)
	t.Setenv("AQUACHECK_LLM_PROVIDER", "anthropic")
	t.Setenv("AQUACHECK_LLM_MODEL", "claude-sonnet")
	t.Setenv("AQUACHECK_DATA", "env.csv")
	t.Setenv("AQUACHECK_MUTE", "true")
	t.Setenv("AQUACHECK_TREES", "7")
	t.Setenv("AQUACHECK_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.DataPath)
	assert.True(t, cfg.Speech.Mute)
	assert.Equal(t, 7, cfg.Model.Forest.Trees)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet", cfg.LLM.Model)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AQUACHECK_LOG_LEVEL=debug\n"), 0o644))
	// godotenv sets the variable for the rest of the process.
	t.Cleanup(func() { os.Unsetenv("AQUACHECK_LOG_LEVEL") })
	os.Unsetenv("AQUACHECK_LOG_LEVEL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_BadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("AQUACHECK_TREES", "many")
	_, err := Load("")
	assert.ErrorContains(t, err, "AQUACHECK_TREES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.DataPath = "" }},
		{"no trees", func(c *Config) { c.Model.Forest.Trees = 0 }},
		{"test fraction too big", func(c *Config) { c.Model.TestFraction = 1 }},
		{"unknown engine", func(c *Config) { c.Speech.Engine = "festival" }},
		{"unknown mode", func(c *Config) { c.Server.Mode = "prod" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
