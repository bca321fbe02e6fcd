package config

import (
	"time"

	"go-stock-sentiment/pkg/config"
)

// Worker holds consumer-loop configuration.
type Worker struct {
	ReadBlockTimeout time.Duration `mapstructure:"read_block_timeout"`
	ProcessTimeout   time.Duration `mapstructure:"process_timeout"`

	// Poison-entry handling
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
	MaxIdleDuration time.Duration `mapstructure:"max_idle_duration"`
	MaxRetry        int           `mapstructure:"max_retry"`
}

// Classifier selects the sentiment scoring provider.
type Classifier struct {
	Provider string `mapstructure:"provider"`
}

// Finbert holds the configuration for the FinBERT scoring sidecar.
type Finbert struct {
	BaseURL string `mapstructure:"base_url"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Config holds the full configuration for the worker service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	Worker     Worker          `mapstructure:"worker"`
	Classifier Classifier      `mapstructure:"classifier"`
	Finbert    Finbert         `mapstructure:"finbert"`
	Gemini     Gemini          `mapstructure:"gemini"`
	Telegram   config.Telegram `mapstructure:"telegram"`
}

// Load loads the worker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
