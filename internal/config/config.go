// Package config loads the tool's configuration from an optional .env
// file, an optional recap.yml and the environment, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const configFile = "recap.yml"

// Config is the complete application configuration.
type Config struct {
	// Anthropic API settings
	AnthropicAPIKey string `yaml:"anthropic_api_key" envconfig:"ANTHROPIC_API_KEY"`
	AIModel         string `yaml:"ai_model" envconfig:"AI_MODEL"`
	AIAnalysisMode  string `yaml:"ai_analysis_mode" envconfig:"AI_ANALYSIS_MODE" validate:"oneof=quick detailed market-focus"`

	// Cost and rate discipline
	MaxDailyAICost float64       `yaml:"max_daily_ai_cost" envconfig:"MAX_DAILY_AI_COST" validate:"gt=0"`
	TokenRate      float64       `yaml:"ai_token_rate" envconfig:"AI_TOKEN_RATE" validate:"gt=0"`
	CallSpacing    time.Duration `yaml:"ai_call_spacing" envconfig:"AI_CALL_SPACING" validate:"gt=0"`

	// Scraping settings
	ScrapingDelay time.Duration `yaml:"scraping_delay" envconfig:"SCRAPING_DELAY" validate:"gte=0"`
	MaxRetries    int           `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"gte=1"`
	UserAgent     string        `yaml:"user_agent" envconfig:"USER_AGENT" validate:"required"`

	// Output settings
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// Optional webhook for run notifications
	WebhookURL string `yaml:"webhook_url" envconfig:"WEBHOOK_URL" validate:"omitempty,url"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL"`
	Output   string `yaml:"output" envconfig:"LOG_OUTPUT"` // console | file | both
	FilePath string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
}

// Default returns the built-in configuration. File and environment values
// layer on top of it.
func Default() *Config {
	return &Config{
		AIModel:        "claude-3-haiku-20240307",
		AIAnalysisMode: "quick",
		MaxDailyAICost: 10.0,
		// blended haiku pricing, currency per token
		TokenRate:     0.000001,
		CallSpacing:   1500 * time.Millisecond,
		ScrapingDelay: time.Second,
		MaxRetries:    3,
		UserAgent:     "ProductHunt Daily Recap CLI Tool v1.0",
		OutputDir:     "./data",
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/recap.log",
		},
	}
}

// Load assembles the configuration: defaults, then recap.yml if present,
// then environment variables (a .env file is honoured when it exists).
func Load() (*Config, error) {
	// .env is optional; absence is not an error
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// AIEnabled reports whether AI analysis can run at all: without a
// credential every analysis degrades to disabled.
func (c *Config) AIEnabled() bool {
	return c.AnthropicAPIKey != ""
}
