package config

import (
	"time"

	"go-stock-sentiment/pkg/config"
)

// Waiter holds completion-wait tuning for on-demand collection.
type Waiter struct {
	MaxWait         time.Duration `mapstructure:"max_wait"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
}

// Collect holds the targeted-collection settings used by the collect-now
// endpoint.
type Collect struct {
	Subreddits                []string `mapstructure:"subreddits"`
	RedditBaseURL             string   `mapstructure:"reddit_base_url"`
	RedditMaxRequestPerMinute int      `mapstructure:"reddit_max_request_per_minute"`
	SearchLimit               int      `mapstructure:"search_limit"`
	MaxResults                int      `mapstructure:"max_results"`
}

// Universe holds the S&P 500 membership cache settings.
type Universe struct {
	ConstituentsURL string        `mapstructure:"constituents_url"`
	RefreshTTL      time.Duration `mapstructure:"refresh_ttl"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Waiter   Waiter          `mapstructure:"waiter"`
	Collect  Collect         `mapstructure:"collect"`
	Universe Universe        `mapstructure:"universe"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
