package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
)

func coords(lat, lng float64) entities.Coordinates {
	return entities.Coordinates{Lat: lat, Lng: lng}
}

// stubCompletions returns a canned reply or error for every Complete call.
type stubCompletions struct {
	reply string
	err   error
	calls []providers.CompletionRequest
}

func (s *stubCompletions) Complete(_ context.Context, req providers.CompletionRequest) (string, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// stubGeocoder returns a fixed address or error for every Geocode call.
type stubGeocoder struct {
	address *providers.GeocodedAddress
	err     error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*providers.GeocodedAddress, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.address, nil
}

// stubSource is a SearchSource with canned results or a canned failure.
type stubSource struct {
	name    entities.Source
	results []entities.SearchResult
	err     error
}

func (s *stubSource) Name() entities.Source { return s.name }

func (s *stubSource) Search(_ context.Context, _, _ string) ([]entities.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// memoryCache is an in-memory CacheProvider for tests.
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failAll bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return nil, errors.New("cache unavailable")
	}
	value, ok := c.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errors.New("cache unavailable")
	}
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

// memorySearchCacheRepo is an in-memory SearchCacheRepository.
type memorySearchCacheRepo struct {
	mu      sync.Mutex
	rows    map[string]repositories.CachedSearchRow
	failAll bool
}

func newMemorySearchCacheRepo() *memorySearchCacheRepo {
	return &memorySearchCacheRepo{rows: make(map[string]repositories.CachedSearchRow)}
}

func (r *memorySearchCacheRepo) Get(_ context.Context, queryHash string) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("store unavailable")
	}
	row, ok := r.rows[queryHash]
	if !ok {
		return nil, errors.New("not found")
	}
	return row.Payload, nil
}

func (r *memorySearchCacheRepo) Store(_ context.Context, row repositories.CachedSearchRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errors.New("store unavailable")
	}
	r.rows[row.QueryHash] = row
	return nil
}

func (r *memorySearchCacheRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

// memoryLocationCacheRepo is an in-memory LocationCacheRepository.
type memoryLocationCacheRepo struct {
	mu   sync.Mutex
	rows map[string]repositories.CachedLocationRow
}

func newMemoryLocationCacheRepo() *memoryLocationCacheRepo {
	return &memoryLocationCacheRepo{rows: make(map[string]repositories.CachedLocationRow)}
}

func (r *memoryLocationCacheRepo) Get(_ context.Context, rawInput string) (*repositories.CachedLocationRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[rawInput]
	if !ok {
		return nil, errors.New("not found")
	}
	return &row, nil
}

func (r *memoryLocationCacheRepo) Store(_ context.Context, row repositories.CachedLocationRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.RawInput] = row
	return nil
}

func (r *memoryLocationCacheRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

// recordingEventRepo records every analytics event it is handed.
type recordingEventRepo struct {
	mu     sync.Mutex
	events []*entities.SearchEvent
}

func (r *recordingEventRepo) LogEvent(_ context.Context, event *entities.SearchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// stubEmbedder returns a fixed vector for every Embed call.
type stubEmbedder struct {
	vector []float64
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

// memoryEmbeddingRepo is an in-memory PlaceEmbeddingRepository.
type memoryEmbeddingRepo struct {
	mu      sync.Mutex
	upserts []*entities.PlaceEmbedding
	similar []entities.SimilarPlace
}

func (r *memoryEmbeddingRepo) Upsert(_ context.Context, embedding *entities.PlaceEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts = append(r.upserts, embedding)
	return nil
}

func (r *memoryEmbeddingRepo) SearchSimilar(_ context.Context, _ []float64, _ float64, _ int) ([]entities.SimilarPlace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.similar, nil
}

// recordingEventBus collects published events.
type recordingEventBus struct {
	mu        sync.Mutex
	published []*entities.SearchEvent
}

func (b *recordingEventBus) Publish(_ context.Context, _ string, event *entities.SearchEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *recordingEventBus) Subscribe(_ context.Context, _ string) (<-chan *entities.SearchEvent, error) {
	ch := make(chan *entities.SearchEvent)
	close(ch)
	return ch, nil
}

func (b *recordingEventBus) Unsubscribe(_ context.Context, _ string) error { return nil }

func (b *recordingEventBus) Close() error { return nil }
