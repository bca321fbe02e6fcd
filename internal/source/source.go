package source

import (
	"context"
	"time"
)

// Post is one unit of text fetched from a source.
type Post struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
}

// TextSource is the boundary to a social-media or news feed. Implementations
// must treat network failures as errors; the producers decide whether to
// skip or abort.
type TextSource interface {
	// Name identifies the source channel (e.g. the subreddit name).
	Name() string
	// FetchNewest returns up to limit of the newest posts.
	FetchNewest(ctx context.Context, limit int) ([]Post, error)
	// Search returns up to limit posts matching the query, newest first.
	Search(ctx context.Context, query string, limit int) ([]Post, error)
}
