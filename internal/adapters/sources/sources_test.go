package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/underfoot/underfoot/internal/domain/entities"
)

func TestSerpSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "underground local hidden")
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"title": "Hidden Bar", "snippet": "A speakeasy downtown", "link": "https://example.com/bar", "position": 1},
				{"title": "Secret Garden", "snippet": "Tucked-away park", "link": "https://example.com/garden", "position": 2}
			]
		}`))
	}))
	defer server.Close()

	source := NewSerpSourceWithOptions("test-key", server.URL, server.Client())
	results, err := source.Search(context.Background(), "Portland, OR", "dive bars")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Hidden Bar", results[0].Name)
	assert.Equal(t, entities.SourceSerp, results[0].Source)
	assert.Equal(t, "https://example.com/bar", results[0].URL)
	assert.Equal(t, 1, results[0].Metadata["position"])
}

func TestSerpSource_MissingKey(t *testing.T) {
	source := NewSerpSourceWithOptions("", "http://unused", http.DefaultClient)
	_, err := source.Search(context.Background(), "Portland", "bars")
	assert.Error(t, err)
}

func TestSerpSource_CapsAtTen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results": [
			{"title":"1"},{"title":"2"},{"title":"3"},{"title":"4"},{"title":"5"},
			{"title":"6"},{"title":"7"},{"title":"8"},{"title":"9"},{"title":"10"},
			{"title":"11"},{"title":"12"}
		]}`))
	}))
	defer server.Close()

	source := NewSerpSourceWithOptions("k", server.URL, server.Client())
	results, err := source.Search(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestRedditSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "relevance", r.URL.Query().Get("sort"))
		w.Write([]byte(`{"data": {"children": [
			{"data": {"title": "Best dive bars?", "selftext": "Looking for recs", "permalink": "/r/portland/comments/abc/", "subreddit": "portland", "score": 245}}
		]}}`))
	}))
	defer server.Close()

	source := NewRedditSourceWithOptions(server.URL, server.Client())
	results, err := source.Search(context.Background(), "Portland", "dive bars")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Best dive bars?", results[0].Name)
	assert.Equal(t, entities.SourceReddit, results[0].Source)
	assert.Equal(t, "https://reddit.com/r/portland/comments/abc/", results[0].URL)
	assert.Equal(t, "portland", results[0].Metadata["subreddit"])
	assert.Equal(t, float64(245), results[0].Metadata["score"])
}

func TestRedditSource_TruncatesSelftext(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"children": [{"data": {"title": "t", "selftext": "` + string(long) + `"}}]}}`))
	}))
	defer server.Close()

	source := NewRedditSourceWithOptions(server.URL, server.Client())
	results, err := source.Search(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Len(t, results[0].Description, 200)
}

func TestRedditSource_TruncationIsRuneSafe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"children": [{"data": {"title": "t", "selftext": "` + strings.Repeat("é", 250) + `"}}]}}`))
	}))
	defer server.Close()

	source := NewRedditSourceWithOptions(server.URL, server.Client())
	results, err := source.Search(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(results[0].Description))
	assert.True(t, utf8.ValidString(results[0].Description))
}

func TestRedditSource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := NewRedditSourceWithOptions(server.URL, server.Client())
	_, err := source.Search(context.Background(), "x", "y")
	assert.Error(t, err)
}

func TestEventbriteSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "Asheville, NC", r.URL.Query().Get("location.address"))
		assert.Equal(t, "venue", r.URL.Query().Get("expand"))
		w.Write([]byte(`{"events": [
			{"name": {"text": "Night Market"}, "description": {"text": "Local makers"}, "url": "https://eventbrite.com/e/1", "start": {"local": "2026-09-05T18:00:00"}, "venue": {"name": "The Mill"}}
		]}`))
	}))
	defer server.Close()

	source := NewEventbriteSourceWithOptions("test-token", server.URL, server.Client())
	results, err := source.Search(context.Background(), "Asheville, NC", "live music")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Night Market", results[0].Name)
	assert.Equal(t, entities.SourceEventbrite, results[0].Source)
	assert.Equal(t, "2026-09-05T18:00:00", results[0].Metadata["start"])
	assert.Equal(t, "The Mill", results[0].Metadata["venue"])
}

func TestEventbriteSource_MissingToken(t *testing.T) {
	source := NewEventbriteSourceWithOptions("", "http://unused", http.DefaultClient)
	results, err := source.Search(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, entities.SourceSerp, NewSerpSource("k").Name())
	assert.Equal(t, entities.SourceReddit, NewRedditSource("").Name())
	assert.Equal(t, entities.SourceEventbrite, NewEventbriteSource("t").Name())
}
