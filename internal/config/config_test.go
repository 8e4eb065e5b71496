package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "claude-3-haiku-20240307", cfg.AIModel)
	assert.Equal(t, "quick", cfg.AIAnalysisMode)
	assert.Equal(t, 10.0, cfg.MaxDailyAICost)
	assert.Equal(t, 1500*time.Millisecond, cfg.CallSpacing)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "./data", cfg.OutputDir)
	assert.Equal(t, "both", cfg.Logging.Output)

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AIEnabled(), "no credential by default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown analysis mode", func(c *Config) { c.AIAnalysisMode = "thorough" }},
		{"zero cost ceiling", func(c *Config) { c.MaxDailyAICost = 0 }},
		{"negative token rate", func(c *Config) { c.TokenRate = -1 }},
		{"zero call spacing", func(c *Config) { c.CallSpacing = 0 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"empty user agent", func(c *Config) { c.UserAgent = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"malformed webhook url", func(c *Config) { c.WebhookURL = "not a url" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults when nothing is set", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		yml := "ai_analysis_mode: detailed\nmax_daily_ai_cost: 2.5\noutput_dir: ./reports\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "recap.yml"), []byte(yml), 0o644))
		chdir(t, dir)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "detailed", cfg.AIAnalysisMode)
		assert.Equal(t, 2.5, cfg.MaxDailyAICost)
		assert.Equal(t, "./reports", cfg.OutputDir)
		// untouched values keep their defaults
		assert.Equal(t, 1500*time.Millisecond, cfg.CallSpacing)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		yml := "ai_analysis_mode: detailed\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "recap.yml"), []byte(yml), 0o644))
		chdir(t, dir)

		t.Setenv("AI_ANALYSIS_MODE", "market-focus")
		t.Setenv("ANTHROPIC_API_KEY", "sk-test")
		t.Setenv("AI_CALL_SPACING", "2s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "market-focus", cfg.AIAnalysisMode)
		assert.Equal(t, 2*time.Second, cfg.CallSpacing)
		assert.True(t, cfg.AIEnabled())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("AI_ANALYSIS_MODE", "thorough")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "recap.yml"), []byte(":\n\t- broken"), 0o644))
		chdir(t, dir)

		_, err := Load()
		assert.Error(t, err)
	})
}
