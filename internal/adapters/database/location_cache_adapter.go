package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// LocationCacheAdapter implements LocationCacheRepository on the
// location_cache table, keyed by trimmed-lowercased raw input.
type LocationCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLocationCacheAdapter creates a new location cache adapter.
func NewLocationCacheAdapter(client *postgres.Client) repositories.LocationCacheRepository {
	return &LocationCacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get retrieves a non-expired location entry.
func (a *LocationCacheAdapter) Get(ctx context.Context, rawInput string) (*repositories.CachedLocationRow, error) {
	query, args, err := a.db.Select("raw_input", "normalized_location", "confidence", "raw_candidates", "expires_at").
		From("location_cache").
		Where(
			goqu.Ex{"raw_input": rawInput},
			goqu.C("expires_at").Gt(time.Now().UTC()),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build location lookup query", err)
	}

	row := &repositories.CachedLocationRow{}
	var candidates []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&row.RawInput,
		&row.Normalized,
		&row.Confidence,
		&candidates,
		&row.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("location cache entry not found")
	}
	if err != nil {
		return nil, apperrors.NewCacheError("read", err)
	}

	row.Candidates = candidates
	return row, nil
}

// Store upserts a location entry keyed by raw input.
func (a *LocationCacheAdapter) Store(ctx context.Context, row repositories.CachedLocationRow) error {
	candidates := []byte(row.Candidates)
	if len(candidates) == 0 {
		candidates = []byte("[]")
	}

	record := goqu.Record{
		"raw_input":           row.RawInput,
		"normalized_location": row.Normalized,
		"confidence":          row.Confidence,
		"raw_candidates":      candidates,
		"expires_at":          row.ExpiresAt.UTC(),
		"updated_at":          time.Now().UTC(),
	}

	query, args, err := a.db.Insert("location_cache").
		Rows(record).
		OnConflict(goqu.DoUpdate("raw_input", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build location upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewCacheError("write", err)
	}

	return nil
}

// Count returns the number of rows in the location cache table.
func (a *LocationCacheAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("location_cache").
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build location count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewCacheError("count", err)
	}

	return count, nil
}
