package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 80, cfg.Detector.RewriteThreshold)
	assert.Equal(t, "silmu.kr", cfg.Humanizer.RequiredLink)
	assert.Equal(t, "main", cfg.Publisher.BlogID)
	assert.Equal(t, 4, cfg.Publisher.MinIntervalHours)
	assert.Equal(t, []int{9, 15, 20}, cfg.Publisher.PreferredHours)
	assert.Len(t, cfg.Publisher.CategoryOrder, 3)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().SEO, cfg.SEO)
	assert.Equal(t, Default().Publisher.RotationQuota, cfg.Publisher.RotationQuota)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
db:
  path: /tmp/custom.db
detector:
  rewrite_threshold: 70
publisher:
  min_interval_hours: 6
  max_posts_per_day: 1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DB.Path)
	assert.Equal(t, 70, cfg.Detector.RewriteThreshold)
	assert.Equal(t, 6, cfg.Publisher.MinIntervalHours)
	assert.Equal(t, 1, cfg.Publisher.MaxPostsPerDay)
	// untouched sections keep their defaults
	assert.Equal(t, Default().Keyword, cfg.Keyword)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  api_key: from-yaml\n"), 0o644))

	t.Setenv("BLOGFORGE_API_KEY", "from-env")
	t.Setenv("BLOGFORGE_AI_PROVIDER", "openai")
	t.Setenv("BLOGFORGE_TELEGRAM_TOKEN", "tg-token")
	t.Setenv("BLOGFORGE_DB", "/tmp/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "tg-token", cfg.Telegram.BotToken)
	assert.Equal(t, "/tmp/env.db", cfg.DB.Path)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("publisher: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty blog id", func(c *Config) { c.Publisher.BlogID = "" }, "blog_id"},
		{"zero quota", func(c *Config) { c.Publisher.RotationQuota = 0 }, "rotation_quota"},
		{"empty category order", func(c *Config) { c.Publisher.CategoryOrder = nil }, "category_order"},
		{"negative interval", func(c *Config) { c.Publisher.MinIntervalHours = -1 }, "min_interval_hours"},
		{"zero min ratio", func(c *Config) { c.Humanizer.MinLengthRatio = 0 }, "length ratios"},
		{"inverted ratios", func(c *Config) { c.Humanizer.MaxLengthRatio = 0.5 }, "length ratios"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
