package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redditListingFixture = `{
  "data": {
    "children": [
      {"data": {"id": "1abcd", "name": "t3_1abcd", "title": "YOLO on $GME", "selftext": "buying more", "created_utc": 1717243200}},
      {"data": {"id": "1abce", "name": "t3_1abce", "title": "market thoughts", "selftext": "", "created_utc": 1717243260}}
    ]
  }
}`

func TestRedditSource_FetchNewest(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(redditListingFixture))
	}))
	defer server.Close()

	src := NewRedditSource("wallstreetbets", server.URL, nil)
	posts, err := src.FetchNewest(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, "/r/wallstreetbets/new.json", gotPath)
	assert.NotEmpty(t, gotUA)
	require.Len(t, posts, 2)
	assert.Equal(t, "t3_1abcd", posts[0].ID)
	assert.Equal(t, "YOLO on $GME", posts[0].Title)
	assert.Equal(t, "buying more", posts[0].Body)
	assert.Equal(t, time.Unix(1717243200, 0).UTC(), posts[0].CreatedAt)
}

func TestRedditSource_SearchBuildsQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"children":[]}}`))
	}))
	defer server.Close()

	src := NewRedditSource("stocks", server.URL, nil)
	posts, err := src.Search(context.Background(), "TSLA earnings", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Contains(t, gotQuery, "q=TSLA+earnings")
	assert.Contains(t, gotQuery, "restrict_sr=1")
}

func TestRedditSource_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src := NewRedditSource("stocks", server.URL, nil)
	_, err := src.FetchNewest(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "NVDA earnings beat expectations",
		stripHTML(`<p>NVDA earnings <b>beat</b>   expectations</p>`))
	assert.Equal(t, "", stripHTML(""))
}
