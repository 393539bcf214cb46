package entities

// QueryCategory is the coarse purpose detected behind a user query
type QueryCategory string

const (
	QueryGeneral     QueryCategory = "general"
	QueryFood        QueryCategory = "food"
	QueryEvents      QueryCategory = "events"
	QueryNightlife   QueryCategory = "nightlife"
	QueryCulture     QueryCategory = "culture"
	QueryOutdoor     QueryCategory = "outdoor"
	QueryHistorical  QueryCategory = "historical"
	QueryUnderground QueryCategory = "underground"
	QueryMystical    QueryCategory = "mystical"
)

// ParsedIntent is the cheap, pattern-derived reading of a sanitized query.
// It is produced once per request before any external call and never mutated.
type ParsedIntent struct {
	LocationHint string        `json:"location_hint,omitempty"`
	DateHint     string        `json:"date_hint,omitempty"`
	Category     QueryCategory `json:"category"`
	RawQuery     string        `json:"raw_query"`
}

// ParsedInput is the language-model (or heuristic fallback) reading of the
// query. Confidence reflects how the parse was obtained: 0.8 for a model
// parse, 0.6 for a heuristic parse with a location match, 0.3 without one.
type ParsedInput struct {
	Location   string  `json:"location"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizedLocation is the canonical form of a free-text location.
// Confidence 0.5 with nil coordinates is the degraded fallback used when
// the geocoder is unavailable.
type NormalizedLocation struct {
	Normalized  string       `json:"normalized"`
	Confidence  float64      `json:"confidence"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// SearchContext is assembled once from ParsedInput and NormalizedLocation
// and is read-only for the remainder of the pipeline.
type SearchContext struct {
	Location    string       `json:"location"`
	Intent      string       `json:"intent"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Confidence  float64      `json:"confidence"`
}
