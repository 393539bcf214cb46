package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

const defaultSerpBaseURL = "https://serpapi.com/search"

// SerpSource queries Google results through SerpAPI, biased toward
// underground and local spots.
type SerpSource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSerpSource(apiKey string) providers.SearchSource {
	return &SerpSource{
		apiKey:     apiKey,
		baseURL:    defaultSerpBaseURL,
		httpClient: newHTTPClient(),
	}
}

// NewSerpSourceWithOptions allows overriding the endpoint and client for testing.
func NewSerpSourceWithOptions(apiKey, baseURL string, httpClient *http.Client) providers.SearchSource {
	return &SerpSource{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (s *SerpSource) Name() entities.Source {
	return entities.SourceSerp
}

type serpResponse struct {
	OrganicResults []struct {
		Title    string `json:"title"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
		Position int    `json:"position"`
	} `json:"organic_results"`
}

func (s *SerpSource) Search(ctx context.Context, location, intent string) ([]entities.SearchResult, error) {
	if s.apiKey == "" {
		return nil, apperrors.NewExternalError("serp api key not configured", nil)
	}

	query := fmt.Sprintf("%s %s underground local hidden", intent, location)

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create serp request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("serp request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("serp returned status %d: %s", resp.StatusCode, truncate(string(body), 200)), nil)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode serp response", err)
	}

	results := make([]entities.SearchResult, 0, maxResultsPerSource)
	for _, item := range parsed.OrganicResults {
		if len(results) >= maxResultsPerSource {
			break
		}
		results = append(results, entities.SearchResult{
			Name:        item.Title,
			Description: item.Snippet,
			Source:      entities.SourceSerp,
			URL:         item.Link,
			Metadata: map[string]any{
				"position": item.Position,
			},
		})
	}
	return results, nil
}
