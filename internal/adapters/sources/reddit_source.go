package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

const (
	defaultRedditBaseURL = "https://www.reddit.com"
	redditUserAgent      = "underfoot/1.0 (travel discovery)"
)

// RedditSource searches reddit's public JSON endpoint for community
// recommendations. No credentials required.
type RedditSource struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewRedditSource(userAgent string) providers.SearchSource {
	if userAgent == "" {
		userAgent = redditUserAgent
	}
	return &RedditSource{
		baseURL:    defaultRedditBaseURL,
		userAgent:  userAgent,
		httpClient: newHTTPClient(),
	}
}

func NewRedditSourceWithOptions(baseURL string, httpClient *http.Client) providers.SearchSource {
	return &RedditSource{baseURL: baseURL, userAgent: redditUserAgent, httpClient: httpClient}
}

func (s *RedditSource) Name() entities.Source {
	return entities.SourceReddit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string  `json:"title"`
				Selftext  string  `json:"selftext"`
				Permalink string  `json:"permalink"`
				Subreddit string  `json:"subreddit"`
				Score     float64 `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *RedditSource) Search(ctx context.Context, location, intent string) ([]entities.SearchResult, error) {
	query := fmt.Sprintf("%s %s", intent, location)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "10")
	params.Set("sort", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create reddit request", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("reddit request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("reddit returned status %d", resp.StatusCode), nil)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, apperrors.NewExternalError("failed to decode reddit response", err)
	}

	results := make([]entities.SearchResult, 0, maxResultsPerSource)
	for _, child := range listing.Data.Children {
		if len(results) >= maxResultsPerSource {
			break
		}
		post := child.Data
		results = append(results, entities.SearchResult{
			Name:        post.Title,
			Description: truncate(post.Selftext, 200),
			Source:      entities.SourceReddit,
			URL:         "https://reddit.com" + post.Permalink,
			Metadata: map[string]any{
				"subreddit": post.Subreddit,
				"score":     post.Score,
			},
		})
	}
	return results, nil
}
