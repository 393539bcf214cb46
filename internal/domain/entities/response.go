package entities

import "time"

// Place is the caller-facing projection of a scored search result
type Place struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Source      Source         `json:"source"`
	URL         string         `json:"url,omitempty"`
	Score       float64        `json:"score"`
	Category    ResultCategory `json:"category"`
}

// DebugInfo is the diagnostic block attached to every search response
type DebugInfo struct {
	RequestID          string                `json:"request_id"`
	ExecutionTimeMs    int64                 `json:"execution_time_ms"`
	DataSourceMs       int64                 `json:"data_source_ms,omitempty"`
	Cache              string                `json:"cache"`
	Parsed             *ParsedInput          `json:"parsed,omitempty"`
	NormalizedLocation *NormalizedLocation   `json:"normalized_location,omitempty"`
	SourceStats        map[string]SourceStat `json:"source_stats,omitempty"`
	ScoringSummary     *ScoringSummary       `json:"scoring_summary,omitempty"`
}

const (
	CacheStatusHit  = "hit"
	CacheStatusMiss = "miss"
)

// SearchResponse is the full payload returned by POST /search and cached
// between identical requests
type SearchResponse struct {
	UserIntent   string    `json:"user_intent"`
	UserLocation string    `json:"user_location"`
	Response     string    `json:"response"`
	Places       []Place   `json:"places"`
	Debug        DebugInfo `json:"debug"`
}

// SearchEvent is the analytics record written after each full orchestration run
type SearchEvent struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	Query       string    `json:"query"`
	Intent      string    `json:"intent"`
	Location    string    `json:"location"`
	ResultCount int       `json:"result_count"`
	CacheStatus string    `json:"cache_status"`
	LatencyMs   int64     `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaceEmbedding is a stored vector for one place, keyed by (source, source_id)
type PlaceEmbedding struct {
	Source    Source         `json:"source"`
	SourceID  string         `json:"source_id"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

// SimilarPlace is one hit from a vector similarity search
type SimilarPlace struct {
	Source     Source         `json:"source"`
	SourceID   string         `json:"source_id"`
	Metadata   map[string]any `json:"metadata"`
	Similarity float64        `json:"similarity"`
}
