package entities

// Source identifies which upstream a search result came from
type Source string

const (
	SourceSerp       Source = "serp"
	SourceReddit     Source = "reddit"
	SourceEventbrite Source = "eventbrite"
)

// ResultCategory is the relevance tier a scored result is sorted into
type ResultCategory string

const (
	CategoryPrimary ResultCategory = "primary"
	CategoryNearby  ResultCategory = "nearby"
)

// SearchResult is a single result from one of the upstream sources.
// Name, Description, Source, URL and Metadata are set once by the source
// adapter; Score and Category are filled in by the scorer.
type SearchResult struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Source      Source         `json:"source"`
	URL         string         `json:"url,omitempty"`
	Score       float64        `json:"score"`
	Category    ResultCategory `json:"category"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CategorizedResults partitions a scored result set by the primary threshold.
// Every input result appears in exactly one partition.
type CategorizedResults struct {
	Primary []SearchResult `json:"primary"`
	Nearby  []SearchResult `json:"nearby"`
}

// ScoringSummary holds aggregate statistics over a scored result set
type ScoringSummary struct {
	TotalResults int     `json:"total_results"`
	AverageScore float64 `json:"average_score"`
	MaxScore     float64 `json:"max_score"`
	MinScore     float64 `json:"min_score"`
}

// SourceStat records the outcome of a single source fetch in the fan-out
type SourceStat struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	SourceStatusSuccess = "success"
	SourceStatusFailed  = "failed"
)
