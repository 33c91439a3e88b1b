package config

import (
	"time"

	"golang-trading-journal/pkg/config"
)

// Insights holds pattern analysis configuration for the API service.
type Insights struct {
	DefaultRangeDays int           `mapstructure:"default_range_days"`
	MaxRangeDays     int           `mapstructure:"max_range_days"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	ScheduleCron     string        `mapstructure:"schedule_cron"`
	PollingInterval  time.Duration `mapstructure:"polling_interval"`
	ActivityLookback time.Duration `mapstructure:"activity_lookback"`
}

// RateLimit holds per-user API rate limiting configuration.
type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Config holds the full configuration for the journal service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Insights  Insights        `mapstructure:"insights"`
	RateLimit RateLimit       `mapstructure:"rate_limit"`
}

// Load loads the journal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
