package config

import (
	"time"

	"go-stock-sentiment/pkg/config"
)

// RSSFeed describes one RSS feed source.
type RSSFeed struct {
	Name         string `mapstructure:"name"`
	URL          string `mapstructure:"url"`
	FetchContent bool   `mapstructure:"fetch_content"`
}

// Collector holds collector-specific configuration.
type Collector struct {
	Schedule                  string        `mapstructure:"schedule"`
	Subreddits                []string      `mapstructure:"subreddits"`
	RSSFeeds                  []RSSFeed     `mapstructure:"rss_feeds"`
	PostsPerSource            int           `mapstructure:"posts_per_source"`
	RedditBaseURL             string        `mapstructure:"reddit_base_url"`
	RedditMaxRequestPerMinute int           `mapstructure:"reddit_max_request_per_minute"`
	DedupeTTL                 time.Duration `mapstructure:"dedupe_ttl"`

	// Targeted collection
	TargetedSearchLimit int `mapstructure:"targeted_search_limit"`
	TargetedMaxResults  int `mapstructure:"targeted_max_results"`
}

// Config holds the full configuration for the collector service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	Collector Collector       `mapstructure:"collector"`
}

// Load loads the collector configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
