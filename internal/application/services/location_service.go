package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
)

// LocationService resolves free-text locations into canonical addresses with
// coordinates and a confidence grade. A geocoder outage degrades to the raw
// input rather than failing the request.
type LocationService struct {
	geocoder providers.GeocodingProvider
	cache    repositories.LocationCacheRepository
	ttl      time.Duration
}

func NewLocationService(
	geocoder providers.GeocodingProvider,
	cache repositories.LocationCacheRepository,
	ttl time.Duration,
) *LocationService {
	return &LocationService{geocoder: geocoder, cache: cache, ttl: ttl}
}

const degradedConfidence = 0.5

// precisionConfidence maps the geocoder's precision tier to a confidence grade
var precisionConfidence = map[providers.PrecisionTier]float64{
	providers.PrecisionRooftop:      1.0,
	providers.PrecisionInterpolated: 0.9,
	providers.PrecisionCenter:       0.8,
	providers.PrecisionApproximate:  0.7,
}

// Normalize resolves rawLocation via the location cache, then the geocoder.
// It never returns an error: any operational failure yields the degraded
// fallback {raw input, 0.5, no coordinates}.
func (s *LocationService) Normalize(ctx context.Context, rawLocation string) entities.NormalizedLocation {
	return s.NormalizeWithOptions(ctx, rawLocation, false)
}

// NormalizeWithOptions is Normalize with an optional cache bypass; a bypassed
// lookup still refreshes the cache on success.
func (s *LocationService) NormalizeWithOptions(ctx context.Context, rawLocation string, bypassCache bool) entities.NormalizedLocation {
	cacheKey := strings.ToLower(strings.TrimSpace(rawLocation))

	if s.cache != nil && !bypassCache {
		if row, err := s.cache.Get(ctx, cacheKey); err == nil {
			normalized := entities.NormalizedLocation{
				Normalized: row.Normalized,
				Confidence: row.Confidence,
			}
			if len(row.Candidates) > 0 {
				var coords entities.Coordinates
				if err := json.Unmarshal(row.Candidates, &coords); err == nil {
					normalized.Coordinates = &coords
				}
			}
			return normalized
		}
	}

	address, err := s.geocoder.Geocode(ctx, rawLocation)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("raw_location", rawLocation).
			Msg("geocoding failed, using degraded fallback")
		return entities.NormalizedLocation{
			Normalized: rawLocation,
			Confidence: degradedConfidence,
		}
	}

	confidence, ok := precisionConfidence[address.Precision]
	if !ok {
		confidence = 0.6
	}

	normalized := entities.NormalizedLocation{
		Normalized:  address.FormattedAddress,
		Confidence:  confidence,
		Coordinates: &entities.Coordinates{Lat: address.Coordinates.Lat, Lng: address.Coordinates.Lng},
	}

	if s.cache != nil {
		candidates, _ := json.Marshal(normalized.Coordinates)
		row := repositories.CachedLocationRow{
			RawInput:   cacheKey,
			Normalized: normalized.Normalized,
			Confidence: normalized.Confidence,
			Candidates: candidates,
			ExpiresAt:  time.Now().Add(s.ttl),
		}
		if err := s.cache.Store(ctx, row); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("location cache write failed")
		}
	}

	return normalized
}
