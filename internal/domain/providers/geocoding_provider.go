package providers

import (
	"context"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// PrecisionTier is the geocoder's own statement of match quality
type PrecisionTier string

const (
	PrecisionRooftop      PrecisionTier = "ROOFTOP"
	PrecisionInterpolated PrecisionTier = "RANGE_INTERPOLATED"
	PrecisionCenter       PrecisionTier = "GEOMETRIC_CENTER"
	PrecisionApproximate  PrecisionTier = "APPROXIMATE"
)

// GeocodedAddress is the raw geocoder answer before confidence mapping
type GeocodedAddress struct {
	FormattedAddress string
	Precision        PrecisionTier
	Coordinates      entities.Coordinates
}

// GeocodingProvider converts free-text locations to canonical addresses.
// Implementations return errors; the location normalizer above them owns the
// degrade-not-fail policy.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)
}
