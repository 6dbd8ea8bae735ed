package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the immutable runtime configuration. Every threshold and weight
// used by the scoring and publishing components is a named field here so tests
// can override them without global state.
type Config struct {
	DB        DBConfig        `yaml:"db"`
	AI        AIConfig        `yaml:"ai"`
	Detector  DetectorConfig  `yaml:"detector"`
	Humanizer HumanizerConfig `yaml:"humanizer"`
	SEO       SEOConfig       `yaml:"seo"`
	Quality   QualityConfig   `yaml:"quality"`
	Keyword   KeywordConfig   `yaml:"keyword"`
	Publisher PublisherConfig `yaml:"publisher"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// AIConfig selects and configures the rewrite backend.
type AIConfig struct {
	Provider   string `yaml:"provider"` // "gemini" or "openai"
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_secs"`
}

type DetectorConfig struct {
	RewriteThreshold int `yaml:"rewrite_threshold"` // score below this needs a rewrite
}

type HumanizerConfig struct {
	// RequiredLink is a domain token the rewriter must never drop from a body
	// that contains it.
	RequiredLink   string  `yaml:"required_link"`
	MinLengthRatio float64 `yaml:"min_length_ratio"`
	MaxLengthRatio float64 `yaml:"max_length_ratio"`
}

type SEOConfig struct {
	OptimalDensityMin float64 `yaml:"optimal_density_min"`
	OptimalDensityMax float64 `yaml:"optimal_density_max"`
}

type QualityConfig struct {
	PlagiarismThreshold float64 `yaml:"plagiarism_threshold"`
	DuplicateTitleSim   float64 `yaml:"duplicate_title_sim"`
	DuplicateBodySim    float64 `yaml:"duplicate_body_sim"`
	RecentPostLimit     int     `yaml:"recent_post_limit"`
}

// KeywordConfig weights sum to 1.0. Freshness and intent have no upstream
// signal today and stay fixed constants.
type KeywordConfig struct {
	VolumeWeight      float64 `yaml:"volume_weight"`
	CompetitionWeight float64 `yaml:"competition_weight"`
	RelevanceWeight   float64 `yaml:"relevance_weight"`
	FreshnessWeight   float64 `yaml:"freshness_weight"`
	IntentWeight      float64 `yaml:"intent_weight"`
	FreshnessConstant float64 `yaml:"freshness_constant"`
	IntentConstant    float64 `yaml:"intent_constant"`
	MaxVolume         int     `yaml:"max_volume"`
}

type PublisherConfig struct {
	BlogID           string   `yaml:"blog_id"`
	MinIntervalHours int      `yaml:"min_interval_hours"`
	MaxPostsPerDay   int      `yaml:"max_posts_per_day"`
	MaxPostsPerWeek  int      `yaml:"max_posts_per_week"`
	PreferredHours   []int    `yaml:"preferred_hours"`
	CategoryOrder    []string `yaml:"category_order"`
	RotationQuota    int      `yaml:"rotation_quota"`
	Endpoint         string   `yaml:"endpoint"`
	Token            string   `yaml:"token"`
	CronSpec         string   `yaml:"cron_spec"`
	Timezone         string   `yaml:"timezone"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Default returns the configuration with all calibration constants the
// scoring rules were tuned against.
func Default() Config {
	return Config{
		DB: DBConfig{Path: "blogforge.db"},
		AI: AIConfig{
			Provider:   "gemini",
			Model:      "gemini-2.0-flash",
			TimeoutSec: 60,
		},
		Detector: DetectorConfig{RewriteThreshold: 80},
		Humanizer: HumanizerConfig{
			RequiredLink:   "silmu.kr",
			MinLengthRatio: 0.7,
			MaxLengthRatio: 1.4,
		},
		SEO: SEOConfig{OptimalDensityMin: 1.5, OptimalDensityMax: 2.5},
		Quality: QualityConfig{
			PlagiarismThreshold: 0.30,
			DuplicateTitleSim:   0.6,
			DuplicateBodySim:    0.4,
			RecentPostLimit:     50,
		},
		Keyword: KeywordConfig{
			VolumeWeight:      0.25,
			CompetitionWeight: 0.20,
			RelevanceWeight:   0.30,
			FreshnessWeight:   0.15,
			IntentWeight:      0.10,
			FreshnessConstant: 100,
			IntentConstant:    80,
			MaxVolume:         100000,
		},
		Publisher: PublisherConfig{
			BlogID:           "main",
			MinIntervalHours: 4,
			MaxPostsPerDay:   2,
			MaxPostsPerWeek:  5,
			PreferredHours:   []int{9, 15, 20},
			CategoryOrder:    []string{"계약실무", "예산회계", "복무인사"},
			RotationQuota:    5,
			CronSpec:         "0 * * * *",
			Timezone:         "Asia/Seoul",
		},
	}
}

// Load reads the YAML config at path on top of defaults, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config over the defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("BLOGFORGE_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("BLOGFORGE_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if token := os.Getenv("BLOGFORGE_TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.BotToken = token
	}
	if dbPath := os.Getenv("BLOGFORGE_DB"); dbPath != "" {
		cfg.DB.Path = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would make the rotation or gate
// arithmetic undefined. These are configuration bugs, not runtime variance,
// so they fail loudly instead of defaulting.
func (c *Config) Validate() error {
	if c.Publisher.BlogID == "" {
		return fmt.Errorf("publisher.blog_id must not be empty")
	}
	if c.Publisher.RotationQuota <= 0 {
		return fmt.Errorf("publisher.rotation_quota must be positive, got %d", c.Publisher.RotationQuota)
	}
	if len(c.Publisher.CategoryOrder) == 0 {
		return fmt.Errorf("publisher.category_order must not be empty")
	}
	if c.Publisher.MinIntervalHours < 0 {
		return fmt.Errorf("publisher.min_interval_hours must not be negative, got %d", c.Publisher.MinIntervalHours)
	}
	if c.Humanizer.MinLengthRatio <= 0 || c.Humanizer.MaxLengthRatio <= c.Humanizer.MinLengthRatio {
		return fmt.Errorf("humanizer length ratios invalid: [%v, %v]", c.Humanizer.MinLengthRatio, c.Humanizer.MaxLengthRatio)
	}
	return nil
}
