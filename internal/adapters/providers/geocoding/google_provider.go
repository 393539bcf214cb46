package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

const (
	googleGeocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultHTTPTimeout = 30 * time.Second
	defaultDialTimeout = 5 * time.Second
)

// GoogleGeocodingProvider implements GeocodingProvider using the Google Maps
// Geocoding API. It returns errors to its caller; the degrade-not-fail policy
// lives in the location service above it.
type GoogleGeocodingProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleGeocodingProvider creates a new Google geocoding provider.
func NewGoogleGeocodingProvider(apiKey string) providers.GeocodingProvider {
	return NewGoogleGeocodingProviderWithOptions(apiKey, googleGeocodeURL, nil)
}

// NewGoogleGeocodingProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeocodingProviderWithOptions(apiKey, baseURL string, httpClient *http.Client) providers.GeocodingProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: defaultDialTimeout}).DialContext,
			},
		}
	}
	return &GoogleGeocodingProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Geocode converts a free-text address into a formatted address with
// coordinates and a precision tier.
func (g *GoogleGeocodingProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	params := url.Values{}
	params.Set("address", trimmed)
	params.Set("key", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if payload.Status != "OK" || len(payload.Results) == 0 {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("geocode request failed: %s", payload.Status)
	}

	result := payload.Results[0]
	addr := providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		Precision:        providers.PrecisionTier(result.Geometry.LocationType),
		Coordinates: entities.Coordinates{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
	}
	if result.FormattedAddress == "" {
		addr.FormattedAddress = trimmed
	}

	return &addr, nil
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location     googleLocation `json:"location"`
	LocationType string         `json:"location_type"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
