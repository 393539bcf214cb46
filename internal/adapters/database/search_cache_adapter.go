package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// SearchCacheAdapter implements SearchCacheRepository on the
// search_results_cache table. Expiry is lazy: reads exclude rows whose
// expires_at has passed; nothing sweeps them.
type SearchCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchCacheAdapter creates a new search cache adapter.
func NewSearchCacheAdapter(client *postgres.Client) repositories.SearchCacheRepository {
	return &SearchCacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves a non-expired cached payload by query hash.
func (a *SearchCacheAdapter) Get(ctx context.Context, queryHash string) (json.RawMessage, error) {
	query, args, err := a.db.Select("results_json").
		From("search_results_cache").
		Where(
			goqu.Ex{"query_hash": queryHash},
			goqu.C("expires_at").Gt(time.Now().UTC()),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build cache lookup query", err)
	}

	var payload []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("search cache entry not found")
	}
	if err != nil {
		return nil, apperrors.NewCacheError("read", err)
	}

	return payload, nil
}

// Store upserts a cache entry keyed by query hash.
func (a *SearchCacheAdapter) Store(ctx context.Context, row repositories.CachedSearchRow) error {
	record := goqu.Record{
		"query_hash":   row.QueryHash,
		"location":     row.Location,
		"intent":       row.Intent,
		"results_json": []byte(row.Payload),
		"expires_at":   row.ExpiresAt.UTC(),
		"updated_at":   time.Now().UTC(),
	}

	query, args, err := a.db.Insert("search_results_cache").
		Rows(record).
		OnConflict(goqu.DoUpdate("query_hash", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cache upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewCacheError("write", err)
	}

	return nil
}

// Count returns the number of rows in the cache table, expired rows included.
func (a *SearchCacheAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("search_results_cache").
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build cache count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewCacheError("count", err)
	}

	return count, nil
}
