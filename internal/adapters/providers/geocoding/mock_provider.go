package geocoding

import (
	"context"
	"strings"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

// MockGeocodingProvider implements a mock geocoding provider for local
// development and tests
type MockGeocodingProvider struct{}

// NewMockGeocodingProvider creates a new mock geocoding provider
func NewMockGeocodingProvider() providers.GeocodingProvider {
	return &MockGeocodingProvider{}
}

var mockLocations = map[string]providers.GeocodedAddress{
	"pikeville": {
		FormattedAddress: "Pikeville, KY 41501, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      entities.Coordinates{Lat: 37.4793, Lng: -82.5188},
	},
	"atlanta": {
		FormattedAddress: "Atlanta, GA, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      entities.Coordinates{Lat: 33.7490, Lng: -84.3880},
	},
	"portland": {
		FormattedAddress: "Portland, OR, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      entities.Coordinates{Lat: 45.5152, Lng: -122.6784},
	},
	"new york": {
		FormattedAddress: "New York, NY, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      entities.Coordinates{Lat: 40.7128, Lng: -74.0060},
	},
}

// Geocode returns canned coordinates for a few known cities
func (m *MockGeocodingProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	lower := strings.ToLower(address)
	for needle, addr := range mockLocations {
		if strings.Contains(lower, needle) {
			result := addr
			return &result, nil
		}
	}

	return &providers.GeocodedAddress{
		FormattedAddress: strings.TrimSpace(address),
		Precision:        providers.PrecisionApproximate,
		Coordinates:      entities.Coordinates{Lat: 37.7749, Lng: -122.4194},
	}, nil
}
