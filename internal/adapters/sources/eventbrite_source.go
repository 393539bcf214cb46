package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

const defaultEventbriteBaseURL = "https://www.eventbriteapi.com/v3"

// EventbriteSource finds local events near the requested location.
// A missing token degrades to zero results rather than failing the fan-out.
type EventbriteSource struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewEventbriteSource(token string) providers.SearchSource {
	return &EventbriteSource{
		token:      token,
		baseURL:    defaultEventbriteBaseURL,
		httpClient: newHTTPClient(),
	}
}

func NewEventbriteSourceWithOptions(token, baseURL string, httpClient *http.Client) providers.SearchSource {
	return &EventbriteSource{token: token, baseURL: baseURL, httpClient: httpClient}
}

func (s *EventbriteSource) Name() entities.Source {
	return entities.SourceEventbrite
}

type eventbriteResponse struct {
	Events []struct {
		Name struct {
			Text string `json:"text"`
		} `json:"name"`
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
		URL   string `json:"url"`
		Start struct {
			Local string `json:"local"`
		} `json:"start"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"events"`
}

func (s *EventbriteSource) Search(ctx context.Context, location, intent string) ([]entities.SearchResult, error) {
	if s.token == "" {
		log.Warn().Msg("eventbrite token not configured, skipping source")
		return []entities.SearchResult{}, nil
	}

	params := url.Values{}
	params.Set("q", intent)
	params.Set("location.address", location)
	params.Set("expand", "venue")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/events/search/?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create eventbrite request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("eventbrite request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("eventbrite returned status %d", resp.StatusCode), nil)
	}

	var parsed eventbriteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode eventbrite response", err)
	}

	results := make([]entities.SearchResult, 0, maxResultsPerSource)
	for _, event := range parsed.Events {
		if len(results) >= maxResultsPerSource {
			break
		}
		results = append(results, entities.SearchResult{
			Name:        event.Name.Text,
			Description: truncate(event.Description.Text, 200),
			Source:      entities.SourceEventbrite,
			URL:         event.URL,
			Metadata: map[string]any{
				"start": event.Start.Local,
				"venue": event.Venue.Name,
			},
		})
	}
	return results, nil
}
