package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const redditUserAgent = "go-stock-sentiment/1.0 (ticker sentiment collector)"

// RedditSource reads a single subreddit through Reddit's public JSON
// listings. All instances share one rate limiter so the collector stays
// inside Reddit's per-client request budget.
type RedditSource struct {
	subreddit string
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
}

// redditListing mirrors the subset of Reddit's listing response we consume.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID         string  `json:"id"`
				Name       string  `json:"name"`
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditSource creates a source for one subreddit. maxRequestPerMinute
// bounds the request rate; limiter may be shared across sources by calling
// NewRedditLimiter once and passing it to each.
func NewRedditSource(subreddit, baseURL string, limiter *rate.Limiter) *RedditSource {
	if baseURL == "" {
		baseURL = "https://www.reddit.com"
	}
	return &RedditSource{
		subreddit: subreddit,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
	}
}

// NewRedditLimiter builds a limiter that spreads maxRequestPerMinute evenly
// over the minute.
func NewRedditLimiter(maxRequestPerMinute int) *rate.Limiter {
	if maxRequestPerMinute <= 0 {
		maxRequestPerMinute = 60
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequestPerMinute)), 1)
}

// Name returns the subreddit name.
func (s *RedditSource) Name() string {
	return s.subreddit
}

// FetchNewest returns the newest posts in the subreddit.
func (s *RedditSource) FetchNewest(ctx context.Context, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=%d", s.baseURL, s.subreddit, limit)
	return s.fetchListing(ctx, endpoint)
}

// Search returns posts in the subreddit matching the query, newest first.
func (s *RedditSource) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=1&sort=new&limit=%d",
		s.baseURL, s.subreddit, url.QueryEscape(query), limit)
	return s.fetchListing(ctx, endpoint)
}

func (s *RedditSource) fetchListing(ctx context.Context, endpoint string) ([]Post, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch r/%s: %w", s.subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d for r/%s", resp.StatusCode, s.subreddit)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode reddit listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		data := child.Data
		id := data.Name
		if id == "" {
			id = data.ID
		}
		posts = append(posts, Post{
			ID:        id,
			Title:     data.Title,
			Body:      data.Selftext,
			CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}
