package providers

import (
	"context"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// SearchSource is one upstream fetcher in the retrieval fan-out.
// Search returns up to 10 mapped results; a failure is returned as an error
// and the orchestrator records it without aborting the sibling sources.
type SearchSource interface {
	Name() entities.Source
	Search(ctx context.Context, location, intent string) ([]entities.SearchResult, error)
}
