package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// RSSSource reads a Google News style RSS feed. FetchNewest reads the base
// feed; Search uses the feed's /search?q= endpoint. Item descriptions are
// HTML and get stripped to plain text; optionally the linked article is
// fetched and run through readability for the full body.
type RSSSource struct {
	name         string
	baseURL      string
	fetchContent bool
	client       *http.Client
	parser       *gofeed.Parser
}

// NewRSSSource creates an RSS-backed text source. When fetchContent is true
// the linked article body is downloaded and extracted for each item.
func NewRSSSource(name, baseURL string, fetchContent bool) *RSSSource {
	return &RSSSource{
		name:         name,
		baseURL:      strings.TrimRight(baseURL, "/"),
		fetchContent: fetchContent,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		parser: gofeed.NewParser(),
	}
}

// Name returns the configured feed name.
func (s *RSSSource) Name() string {
	return s.name
}

// FetchNewest returns the newest items from the base feed.
func (s *RSSSource) FetchNewest(ctx context.Context, limit int) ([]Post, error) {
	return s.fetchFeed(ctx, s.baseURL, limit)
}

// Search queries the feed's search endpoint.
func (s *RSSSource) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))
	return s.fetchFeed(ctx, endpoint, limit)
}

func (s *RSSSource) fetchFeed(ctx context.Context, endpoint string, limit int) ([]Post, error) {
	feed, err := s.parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", endpoint, err)
	}

	posts := make([]Post, 0, limit)
	for _, item := range feed.Items {
		if len(posts) >= limit {
			break
		}

		createdAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			createdAt = item.PublishedParsed.UTC()
		}

		body := stripHTML(item.Description)
		if s.fetchContent && item.Link != "" {
			if content, err := s.fetchArticleContent(ctx, item.Link); err == nil && content != "" {
				body = content
			}
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		posts = append(posts, Post{
			ID:        id,
			Title:     item.Title,
			Body:      body,
			CreatedAt: createdAt,
		})
	}
	return posts, nil
}

// fetchArticleContent downloads the linked article and extracts readable
// text from it.
func (s *RSSSource) fetchArticleContent(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create article request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to extract article content: %w", err)
	}
	return stripHTML(doc.Content()), nil
}

// stripHTML reduces an HTML fragment to whitespace-normalized text.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(fragment)))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
