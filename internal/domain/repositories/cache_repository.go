package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// CachedSearchRow is one persisted search-results cache entry
type CachedSearchRow struct {
	QueryHash string
	Location  string
	Intent    string
	Payload   json.RawMessage
	ExpiresAt time.Time
}

// SearchCacheRepository is the persistent (warm-tier) search-results cache.
// Reads must exclude expired rows; writes upsert on query hash.
type SearchCacheRepository interface {
	Get(ctx context.Context, queryHash string) (json.RawMessage, error)
	Store(ctx context.Context, row CachedSearchRow) error
	Count(ctx context.Context) (int, error)
}

// CachedLocationRow is one persisted location cache entry
type CachedLocationRow struct {
	RawInput   string
	Normalized string
	Confidence float64
	Candidates json.RawMessage
	ExpiresAt  time.Time
}

// LocationCacheRepository is the persistent location normalization cache,
// keyed by trimmed-lowercased raw input
type LocationCacheRepository interface {
	Get(ctx context.Context, rawInput string) (*CachedLocationRow, error)
	Store(ctx context.Context, row CachedLocationRow) error
	Count(ctx context.Context) (int, error)
}

// SearchEventRepository records per-request analytics events
type SearchEventRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
}

// PlaceEmbeddingRepository stores place vectors and answers nearest-neighbor
// queries via the store's similarity function
type PlaceEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *entities.PlaceEmbedding) error
	SearchSimilar(ctx context.Context, queryEmbedding []float64, threshold float64, limit int) ([]entities.SimilarPlace, error)
}
