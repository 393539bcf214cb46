package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// SearchEventAdapter implements SearchEventRepository
type SearchEventAdapter struct {
	client *postgres.Client
}

// NewSearchEventAdapter creates a new search event adapter
func NewSearchEventAdapter(client *postgres.Client) repositories.SearchEventRepository {
	return &SearchEventAdapter{client: client}
}

// LogEvent inserts one analytics row per orchestration run
func (a *SearchEventAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO search_events
		(id, request_id, query, intent, location, result_count, cache_status, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		event.ID,
		event.RequestID,
		event.Query,
		event.Intent,
		event.Location,
		event.ResultCount,
		event.CacheStatus,
		event.LatencyMs,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}
