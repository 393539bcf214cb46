package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/infrastructure/observability"
)

// RetrievalService fans out to every configured search source concurrently.
// A source failure is collected as a value, never propagated: the aggregate
// always contains whatever the surviving sources returned.
type RetrievalService struct {
	sources []providers.SearchSource
	metrics *observability.Metrics
}

func NewRetrievalService(sources []providers.SearchSource, metrics *observability.Metrics) *RetrievalService {
	return &RetrievalService{sources: sources, metrics: metrics}
}

type sourceOutcome struct {
	results []entities.SearchResult
	err     error
}

// Retrieve runs all sources in parallel and joins on completion. Returns the
// concatenated results in source-registration order plus per-source stats.
func (s *RetrievalService) Retrieve(ctx context.Context, location, intent string) ([]entities.SearchResult, map[string]entities.SourceStat) {
	outcomes := make([]sourceOutcome, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source providers.SearchSource) {
			defer wg.Done()
			started := time.Now()
			results, err := source.Search(ctx, location, intent)
			observability.RecordSourceMetric(ctx, s.metrics, string(source.Name()), time.Since(started), err != nil)
			outcomes[i] = sourceOutcome{results: results, err: err}
		}(i, source)
	}
	wg.Wait()

	aggregated := make([]entities.SearchResult, 0, len(s.sources)*10)
	stats := make(map[string]entities.SourceStat, len(s.sources))

	for i, source := range s.sources {
		outcome := outcomes[i]
		name := string(source.Name())
		if outcome.err != nil {
			log.Ctx(ctx).Warn().Err(outcome.err).
				Str("source", name).
				Msg("source retrieval failed")
			stats[name] = entities.SourceStat{
				Count:  0,
				Status: entities.SourceStatusFailed,
				Error:  outcome.err.Error(),
			}
			continue
		}
		aggregated = append(aggregated, outcome.results...)
		stats[name] = entities.SourceStat{
			Count:  len(outcome.results),
			Status: entities.SourceStatusSuccess,
		}
	}

	return aggregated, stats
}
