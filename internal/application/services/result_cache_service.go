package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	"github.com/underfoot/underfoot/internal/infrastructure/observability"
)

// ResultCacheService is the two-tier search-results cache: a hot tier with
// native expiry in front of a persistent warm tier with lazy expiry. Every
// operation is best-effort; a failing store is indistinguishable from a miss.
type ResultCacheService struct {
	hot     providers.CacheProvider
	warm    repositories.SearchCacheRepository
	ttl     time.Duration
	metrics *observability.Metrics
}

func NewResultCacheService(
	hot providers.CacheProvider,
	warm repositories.SearchCacheRepository,
	ttl time.Duration,
	metrics *observability.Metrics,
) *ResultCacheService {
	return &ResultCacheService{hot: hot, warm: warm, ttl: ttl, metrics: metrics}
}

const cacheNamespaceSearch = "search"

// CacheKey derives the content address for a (query, location) pair:
// case/whitespace-insensitive, order-sensitive, always 32 hex characters.
func CacheKey(query, location string) string {
	material := strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToLower(strings.TrimSpace(location))
	digest := sha256.Sum256([]byte(material))
	return hex.EncodeToString(digest[:])[:32]
}

// Get returns the cached payload for (query, location), or ok=false on any
// miss or store failure. A warm-tier hit is backfilled into the hot tier.
func (s *ResultCacheService) Get(ctx context.Context, query, location string) (json.RawMessage, bool) {
	key := CacheKey(query, location)

	if s.hot != nil {
		if payload, err := s.hot.Get(ctx, key); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, cacheNamespaceSearch)
			return payload, true
		}
	}

	if s.warm != nil {
		payload, err := s.warm.Get(ctx, key)
		if err == nil {
			if s.hot != nil {
				if err := s.hot.Set(ctx, key, payload, int(s.ttl.Seconds())); err != nil {
					log.Ctx(ctx).Warn().Err(err).Msg("hot-tier backfill failed")
				}
			}
			observability.RecordCacheHit(ctx, s.metrics, cacheNamespaceSearch)
			return payload, true
		}
	}

	observability.RecordCacheMiss(ctx, s.metrics, cacheNamespaceSearch)
	return nil, false
}

// Put writes the payload to both tiers. Failures are logged and swallowed;
// caching never fails a request.
func (s *ResultCacheService) Put(ctx context.Context, query, location string, payload json.RawMessage) {
	key := CacheKey(query, location)

	if s.hot != nil {
		if err := s.hot.Set(ctx, key, payload, int(s.ttl.Seconds())); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("hot-tier cache write failed")
		}
	}

	if s.warm != nil {
		row := repositories.CachedSearchRow{
			QueryHash: key,
			Location:  strings.ToLower(strings.TrimSpace(location)),
			Intent:    strings.ToLower(strings.TrimSpace(query)),
			Payload:   payload,
			ExpiresAt: time.Now().Add(s.ttl),
		}
		if err := s.warm.Store(ctx, row); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("warm-tier cache write failed")
		}
	}
}
