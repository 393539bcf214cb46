package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

func TestNormalize_GeocoderSuccess(t *testing.T) {
	geocoder := &stubGeocoder{address: &providers.GeocodedAddress{
		FormattedAddress: "Pikeville, KY 41501, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      coords(37.4793, -82.5188),
	}}
	s := NewLocationService(geocoder, newMemoryLocationCacheRepo(), time.Hour)

	normalized := s.Normalize(context.Background(), "Pikeville KY")
	assert.Equal(t, "Pikeville, KY 41501, USA", normalized.Normalized)
	assert.Equal(t, 0.7, normalized.Confidence)
	require.NotNil(t, normalized.Coordinates)
	assert.InDelta(t, 37.4793, normalized.Coordinates.Lat, 0.0001)
}

func TestNormalize_ConfidenceTiers(t *testing.T) {
	tests := []struct {
		precision providers.PrecisionTier
		want      float64
	}{
		{providers.PrecisionRooftop, 1.0},
		{providers.PrecisionInterpolated, 0.9},
		{providers.PrecisionCenter, 0.8},
		{providers.PrecisionApproximate, 0.7},
		{providers.PrecisionTier("SOMETHING_NEW"), 0.6},
	}
	for _, tt := range tests {
		geocoder := &stubGeocoder{address: &providers.GeocodedAddress{
			FormattedAddress: "X",
			Precision:        tt.precision,
		}}
		s := NewLocationService(geocoder, nil, time.Hour)
		normalized := s.Normalize(context.Background(), "x")
		assert.Equal(t, tt.want, normalized.Confidence, "precision %s", tt.precision)
	}
}

func TestNormalize_DegradesOnGeocoderFailure(t *testing.T) {
	geocoder := &stubGeocoder{err: errors.New("rate limited")}
	s := NewLocationService(geocoder, nil, time.Hour)

	normalized := s.Normalize(context.Background(), "Portland, OR")
	assert.Equal(t, "Portland, OR", normalized.Normalized)
	assert.Equal(t, 0.5, normalized.Confidence)
	assert.Nil(t, normalized.Coordinates)
}

func TestNormalize_CacheHitSkipsGeocoder(t *testing.T) {
	cache := newMemoryLocationCacheRepo()
	geocoder := &stubGeocoder{address: &providers.GeocodedAddress{
		FormattedAddress: "Portland, OR, USA",
		Precision:        providers.PrecisionApproximate,
		Coordinates:      coords(45.5152, -122.6784),
	}}
	s := NewLocationService(geocoder, cache, time.Hour)

	first := s.Normalize(context.Background(), "Portland OR")

	// second call served from cache even though the geocoder now fails
	geocoder.address = nil
	geocoder.err = errors.New("down")
	second := s.Normalize(context.Background(), "  portland or ")

	assert.Equal(t, first.Normalized, second.Normalized)
	assert.Equal(t, first.Confidence, second.Confidence)
	require.NotNil(t, second.Coordinates)
	assert.InDelta(t, 45.5152, second.Coordinates.Lat, 0.0001)
}
