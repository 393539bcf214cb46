package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// SearchService is the top-level orchestrator: sanitize → intent → cache
// lookup → parse → normalize → fan-out → score → synthesize → cache write.
// Only validation errors and programming errors escape; every upstream
// outage degrades inside its own stage.
type SearchService struct {
	sanitizer *InputSanitizerService
	intents   *IntentService
	parser    *QueryParserService
	locations *LocationService
	retriever *RetrievalService
	scorer    *ScoringService
	responder *ResponseService
	cache     *ResultCacheService

	events    repositories.SearchEventRepository
	eventBus  providers.EventBus
	embedding *EmbeddingService
}

// SearchServiceDeps carries the collaborators for NewSearchService. The
// analytics and embedding fields are optional; the pipeline runs without them.
type SearchServiceDeps struct {
	Sanitizer *InputSanitizerService
	Intents   *IntentService
	Parser    *QueryParserService
	Locations *LocationService
	Retriever *RetrievalService
	Scorer    *ScoringService
	Responder *ResponseService
	Cache     *ResultCacheService

	Events    repositories.SearchEventRepository
	EventBus  providers.EventBus
	Embedding *EmbeddingService
}

func NewSearchService(deps SearchServiceDeps) *SearchService {
	return &SearchService{
		sanitizer: deps.Sanitizer,
		intents:   deps.Intents,
		parser:    deps.Parser,
		locations: deps.Locations,
		retriever: deps.Retriever,
		scorer:    deps.Scorer,
		responder: deps.Responder,
		cache:     deps.Cache,
		events:    deps.Events,
		eventBus:  deps.EventBus,
		embedding: deps.Embedding,
	}
}

func newRequestID() string {
	return "search_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Search executes one full orchestration run. force bypasses the cache
// lookup but not the cache write.
func (s *SearchService) Search(ctx context.Context, chatInput string, force bool) (*entities.SearchResponse, error) {
	started := time.Now()
	requestID := newRequestID()

	logger := log.Ctx(ctx).With().Str("request_id", requestID).Logger()
	ctx = logger.WithContext(ctx)

	sanitized, err := s.sanitizer.Sanitize(chatInput)
	if err != nil {
		return nil, err
	}

	intent := s.intents.Extract(sanitized)
	logger.Info().
		Str("input_preview", preview(sanitized, 100)).
		Str("category", string(intent.Category)).
		Str("location_hint", intent.LocationHint).
		Msg("search started")

	if !force {
		if payload, ok := s.cache.Get(ctx, sanitized, ""); ok {
			if response, ok := s.cachedResponse(ctx, requestID, sanitized, started, payload); ok {
				return response, nil
			}
		}
	}

	parsed := s.parser.Parse(ctx, sanitized)
	if parsed.Location == "" || parsed.Intent == "" {
		return nil, apperrors.NewValidationError("unable to determine location and intent from input")
	}

	normalized := s.locations.Normalize(ctx, parsed.Location)
	if normalized.Normalized == "" {
		return nil, apperrors.NewValidationError("unable to normalize location: " + parsed.Location)
	}

	searchContext := entities.SearchContext{
		Location:    normalized.Normalized,
		Intent:      parsed.Intent,
		Coordinates: normalized.Coordinates,
		Confidence:  normalized.Confidence,
	}

	retrievalStarted := time.Now()
	results, sourceStats := s.retriever.Retrieve(ctx, searchContext.Location, searchContext.Intent)
	dataSourceMs := time.Since(retrievalStarted).Milliseconds()

	ranked := s.scorer.Rank(results, searchContext.Intent)
	categorized := s.scorer.Categorize(ranked)
	summary := s.scorer.Summarize(ranked)

	places := make([]entities.Place, 0, len(ranked))
	for _, result := range append(categorized.Primary, categorized.Nearby...) {
		places = append(places, entities.Place{
			Name:        result.Name,
			Description: result.Description,
			Source:      result.Source,
			URL:         result.URL,
			Score:       result.Score,
			Category:    result.Category,
		})
	}

	responseText := s.responder.Synthesize(ctx, searchContext.Intent, searchContext.Location, places, summary)

	response := &entities.SearchResponse{
		UserIntent:   searchContext.Intent,
		UserLocation: searchContext.Location,
		Response:     responseText,
		Places:       places,
		Debug: entities.DebugInfo{
			RequestID:          requestID,
			ExecutionTimeMs:    time.Since(started).Milliseconds(),
			DataSourceMs:       dataSourceMs,
			Cache:              entities.CacheStatusMiss,
			Parsed:             &parsed,
			NormalizedLocation: &normalized,
			SourceStats:        sourceStats,
			ScoringSummary:     &summary,
		},
	}

	if payload, err := json.Marshal(response); err == nil {
		s.cache.Put(ctx, sanitized, "", payload)
	} else {
		logger.Warn().Err(err).Msg("failed to encode response for caching")
	}

	s.recordRun(ctx, requestID, sanitized, searchContext, len(places), entities.CacheStatusMiss, time.Since(started).Milliseconds())
	s.storeResultEmbeddings(ctx, ranked)

	logger.Info().
		Int64("elapsed_ms", time.Since(started).Milliseconds()).
		Int("result_count", len(places)).
		Int("primary_count", len(categorized.Primary)).
		Int("nearby_count", len(categorized.Nearby)).
		Msg("search complete")

	return response, nil
}

// cachedResponse re-wraps a cached payload with fresh debug metadata. A
// payload that no longer decodes is treated as a miss so the pipeline
// recomputes instead of failing the request.
func (s *SearchService) cachedResponse(ctx context.Context, requestID, query string, started time.Time, payload json.RawMessage) (*entities.SearchResponse, bool) {
	var response entities.SearchResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("discarding undecodable cache payload")
		return nil, false
	}

	response.Debug.RequestID = requestID
	response.Debug.ExecutionTimeMs = time.Since(started).Milliseconds()
	response.Debug.Cache = entities.CacheStatusHit

	log.Ctx(ctx).Info().
		Int64("elapsed_ms", response.Debug.ExecutionTimeMs).
		Msg("search cache hit")

	s.recordRun(ctx, requestID, query,
		entities.SearchContext{Location: response.UserLocation, Intent: response.UserIntent},
		len(response.Places), entities.CacheStatusHit, response.Debug.ExecutionTimeMs)

	return &response, true
}

// recordRun writes the analytics event and publishes it on the bus.
// Both are best-effort.
func (s *SearchService) recordRun(ctx context.Context, requestID, query string, searchContext entities.SearchContext, resultCount int, cacheStatus string, latencyMs int64) {
	event := &entities.SearchEvent{
		RequestID:   requestID,
		Query:       query,
		Intent:      searchContext.Intent,
		Location:    searchContext.Location,
		ResultCount: resultCount,
		CacheStatus: cacheStatus,
		LatencyMs:   latencyMs,
		CreatedAt:   time.Now().UTC(),
	}

	if s.events != nil {
		if err := s.events.LogEvent(ctx, event); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to log search event")
		}
	}
	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, providers.EventChannelSearchCompleted, event); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to publish search event")
		}
	}
}

// storeResultEmbeddings persists vectors for results that carry a usable
// source id. Failures are logged, never surfaced.
func (s *SearchService) storeResultEmbeddings(ctx context.Context, results []entities.SearchResult) {
	if s.embedding == nil {
		return
	}
	for _, result := range results {
		sourceID := sourceIDFromResult(result)
		if sourceID == "" {
			continue
		}
		metadata := map[string]any{
			"name":   result.Name,
			"url":    result.URL,
			"score":  result.Score,
			"source": string(result.Source),
		}
		text := result.Name + " " + result.Description
		if err := s.embedding.StorePlaceEmbedding(ctx, result.Source, sourceID, text, metadata); err != nil {
			log.Ctx(ctx).Debug().Err(err).
				Str("source", string(result.Source)).
				Msg("embedding write skipped")
		}
	}
}

// sourceIDFromResult derives a stable per-source identifier from result
// metadata; empty when the result carries nothing identifying.
func sourceIDFromResult(result entities.SearchResult) string {
	switch result.Source {
	case entities.SourceReddit:
		if permalink, ok := strings.CutPrefix(result.URL, "https://reddit.com/r/"); ok {
			parts := strings.Split(permalink, "/")
			// /r/<sub>/comments/<id>/...
			if len(parts) >= 3 && parts[1] == "comments" {
				return strings.ToLower(parts[2])
			}
		}
		return ""
	case entities.SourceEventbrite:
		idx := strings.LastIndex(strings.TrimRight(result.URL, "/"), "-")
		if idx >= 0 {
			candidate := strings.TrimRight(result.URL, "/")[idx+1:]
			if eventbriteIDPattern.MatchString(candidate) {
				return candidate
			}
		}
		return ""
	case entities.SourceSerp:
		if len(result.URL) >= 8 {
			return result.URL
		}
		return ""
	}
	return ""
}
