package services

import (
	"sort"
	"strings"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// ScoringService assigns relevance scores to aggregated search results and
// partitions them by the primary threshold. The scoring constants are
// domain-tuned and intentionally not configurable.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

const (
	intentMatchBonus    = 0.3
	undergroundPerHit   = 0.1
	undergroundCap      = 0.4
	redditSourceBonus   = 0.2
	serpSourceBonus     = 0.15
	popularRedditBonus  = 0.1
	eventbriteMetaBonus = 0.1
	popularityThreshold = 100.0
	primaryScoreCutoff  = 0.5
)

var undergroundKeywords = []string{
	"underground",
	"hidden",
	"secret",
	"local",
	"offbeat",
	"alternative",
	"indie",
	"dive",
	"authentic",
	"quirky",
	"weird",
	"unique",
	"undiscovered",
	"locals only",
}

// Score mutates result.Score based on intent overlap, underground-vocabulary
// hits, and source provenance. Additive, capped at 1.0.
func (s *ScoringService) Score(result *entities.SearchResult, intent string) {
	score := 0.0

	text := strings.ToLower(result.Name + " " + result.Description)

	if intent != "" && strings.Contains(text, strings.ToLower(intent)) {
		score += intentMatchBonus
	}

	hits := 0
	for _, keyword := range undergroundKeywords {
		if strings.Contains(text, keyword) {
			hits++
		}
	}
	score += min(float64(hits)*undergroundPerHit, undergroundCap)

	switch result.Source {
	case entities.SourceReddit:
		score += redditSourceBonus
	case entities.SourceSerp:
		score += serpSourceBonus
	}

	if result.Metadata != nil {
		if result.Source == entities.SourceReddit {
			if popularity, ok := result.Metadata["score"].(float64); ok && popularity > popularityThreshold {
				score += popularRedditBonus
			}
		}
		if result.Source == entities.SourceEventbrite {
			score += eventbriteMetaBonus
		}
	}

	result.Score = min(score, 1.0)
}

// Rank scores every result and stable-sorts descending by score.
func (s *ScoringService) Rank(results []entities.SearchResult, intent string) []entities.SearchResult {
	for i := range results {
		s.Score(&results[i], intent)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Categorize partitions scored results at the primary threshold, setting
// each result's category field as a side effect.
func (s *ScoringService) Categorize(results []entities.SearchResult) entities.CategorizedResults {
	categorized := entities.CategorizedResults{
		Primary: make([]entities.SearchResult, 0, len(results)),
		Nearby:  make([]entities.SearchResult, 0),
	}
	for i := range results {
		if results[i].Score >= primaryScoreCutoff {
			results[i].Category = entities.CategoryPrimary
			categorized.Primary = append(categorized.Primary, results[i])
		} else {
			results[i].Category = entities.CategoryNearby
			categorized.Nearby = append(categorized.Nearby, results[i])
		}
	}
	return categorized
}

// Summarize computes aggregate score statistics; all-zero for an empty set.
func (s *ScoringService) Summarize(results []entities.SearchResult) entities.ScoringSummary {
	summary := entities.ScoringSummary{TotalResults: len(results)}
	if len(results) == 0 {
		return summary
	}

	sum := 0.0
	summary.MaxScore = results[0].Score
	summary.MinScore = results[0].Score
	for _, result := range results {
		sum += result.Score
		if result.Score > summary.MaxScore {
			summary.MaxScore = result.Score
		}
		if result.Score < summary.MinScore {
			summary.MinScore = result.Score
		}
	}
	summary.AverageScore = sum / float64(len(results))
	return summary
}
