package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-stock-sentiment/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetedCollect_ConfirmsTickerPresence(t *testing.T) {
	q := &fakeQueue{}
	src := &fakeSource{
		name: "stocks",
		searchResults: map[string][]source.Post{
			`"TSLA"`: {
				// Matched the search but never actually mentions the ticker.
				{ID: "t3_1", Title: "electric cars are the future", Body: "no ticker here", CreatedAt: time.Now()},
				{ID: "t3_2", Title: "$TSLA just hit my price target", Body: "", CreatedAt: time.Now()},
			},
			"TSLA stock": {
				{ID: "t3_3", Title: "TSLA stock is wild", Body: "also holding NVDA", CreatedAt: time.Now()},
			},
		},
	}

	tc := NewTargetedCollector([]source.TextSource{src}, q, testCollectorLogger(t), 25, 30)
	published, err := tc.Collect(context.Background(), "tsla")
	require.NoError(t, err)
	assert.Equal(t, 2, published)

	events := q.captured()
	require.Len(t, events, 2)
	for _, event := range events {
		// Restricted to the requested ticker even when more were extracted.
		assert.Equal(t, []string{"TSLA"}, event.Tickers)
	}
	assert.Equal(t, "t3_2", events[0].SourceID)
	assert.Equal(t, "t3_3", events[1].SourceID)
}

func TestTargetedCollect_DedupesAcrossVariants(t *testing.T) {
	q := &fakeQueue{}
	post := source.Post{ID: "t3_7", Title: "$AMD earnings preview", CreatedAt: time.Now()}
	src := &fakeSource{
		name: "stocks",
		searchResults: map[string][]source.Post{
			`"AMD"`:        {post},
			"AMD stock":    {post},
			"AMD earnings": {post},
			"AMD":          {post},
		},
	}

	tc := NewTargetedCollector([]source.TextSource{src}, q, testCollectorLogger(t), 25, 30)
	published, err := tc.Collect(context.Background(), "AMD")
	require.NoError(t, err)
	assert.Equal(t, 1, published)
}

func TestTargetedCollect_CapsResults(t *testing.T) {
	q := &fakeQueue{}
	var posts []source.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, source.Post{
			ID:        fmt.Sprintf("t3_%d", i),
			Title:     "$NVDA run continues",
			CreatedAt: time.Now(),
		})
	}
	src := &fakeSource{
		name:          "stocks",
		searchResults: map[string][]source.Post{`"NVDA"`: posts},
	}

	tc := NewTargetedCollector([]source.TextSource{src}, q, testCollectorLogger(t), 25, 3)
	published, err := tc.Collect(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, 3, published)
}

func TestTargetedCollect_AllSourcesFailing(t *testing.T) {
	q := &fakeQueue{}
	src := &fakeSource{name: "stocks", searchErr: fmt.Errorf("source unavailable")}

	tc := NewTargetedCollector([]source.TextSource{src}, q, testCollectorLogger(t), 25, 30)
	_, err := tc.Collect(context.Background(), "NVDA")
	require.Error(t, err)
}

func TestTargetedCollect_EmptyTicker(t *testing.T) {
	tc := NewTargetedCollector(nil, &fakeQueue{}, testCollectorLogger(t), 25, 30)
	_, err := tc.Collect(context.Background(), "  ")
	require.Error(t, err)
}
