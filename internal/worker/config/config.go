package config

import (
	"time"

	"golang-trading-journal/pkg/config"
)

// Worker holds insight worker configuration.
type Worker struct {
	RedisStreamInsightTimeout         time.Duration `mapstructure:"redis_stream_insight_timeout"`
	RedisStreamInsightRetryInterval   time.Duration `mapstructure:"redis_stream_insight_retry_interval"`
	RedisStreamInsightMaxIdleDuration time.Duration `mapstructure:"redis_stream_insight_max_idle_duration"`
	RedisStreamInsightMaxRetry        int           `mapstructure:"redis_stream_insight_max_retry"`
	DefaultRangeDays                  int           `mapstructure:"default_range_days"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	Enabled             bool   `mapstructure:"enabled"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Config holds the full configuration for the insight worker.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Worker   Worker          `mapstructure:"worker"`
	Gemini   Gemini          `mapstructure:"gemini"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the worker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
