package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/underfoot/underfoot/internal/domain/entities"
)

func TestScore_IntentMatch(t *testing.T) {
	s := NewScoringService()

	with := entities.SearchResult{Name: "Dive Bars of Portland", Description: "a guide", Source: entities.SourceSerp}
	without := entities.SearchResult{Name: "Portland Guide", Description: "a guide", Source: entities.SourceSerp}

	s.Score(&with, "dive bars")
	s.Score(&without, "dive bars")

	assert.InDelta(t, 0.3, with.Score-without.Score-0.1, 0.0001) // "dive" also hits the vocabulary once
	assert.GreaterOrEqual(t, with.Score-without.Score, 0.3)
}

func TestScore_UndergroundVocabularyCapped(t *testing.T) {
	s := NewScoringService()

	r := entities.SearchResult{
		Name:        "underground hidden secret local offbeat",
		Description: "alternative indie dive",
	}
	s.Score(&r, "")
	// 8 hits × 0.1 capped at 0.4, no source bonus
	assert.InDelta(t, 0.4, r.Score, 0.0001)
}

func TestScore_SourceBonuses(t *testing.T) {
	s := NewScoringService()

	reddit := entities.SearchResult{Name: "x", Source: entities.SourceReddit}
	serp := entities.SearchResult{Name: "x", Source: entities.SourceSerp}
	eventbrite := entities.SearchResult{Name: "x", Source: entities.SourceEventbrite}

	s.Score(&reddit, "")
	s.Score(&serp, "")
	s.Score(&eventbrite, "")

	assert.InDelta(t, 0.2, reddit.Score, 0.0001)
	assert.InDelta(t, 0.15, serp.Score, 0.0001)
	assert.InDelta(t, 0.0, eventbrite.Score, 0.0001) // no metadata, no bonus
}

func TestScore_MetadataBonuses(t *testing.T) {
	s := NewScoringService()

	popular := entities.SearchResult{
		Name:     "x",
		Source:   entities.SourceReddit,
		Metadata: map[string]any{"score": 250.0},
	}
	unpopular := entities.SearchResult{
		Name:     "x",
		Source:   entities.SourceReddit,
		Metadata: map[string]any{"score": 50.0},
	}
	event := entities.SearchResult{
		Name:     "x",
		Source:   entities.SourceEventbrite,
		Metadata: map[string]any{"venue": "The Mill"},
	}

	s.Score(&popular, "")
	s.Score(&unpopular, "")
	s.Score(&event, "")

	assert.InDelta(t, 0.3, popular.Score, 0.0001)
	assert.InDelta(t, 0.2, unpopular.Score, 0.0001)
	assert.InDelta(t, 0.1, event.Score, 0.0001)
}

func TestScore_CappedAtOne(t *testing.T) {
	s := NewScoringService()

	r := entities.SearchResult{
		Name:        "hidden gems underground secret local dive authentic",
		Description: "offbeat quirky weird unique undiscovered hidden gems",
		Source:      entities.SourceReddit,
		Metadata:    map[string]any{"score": 999.0},
	}
	s.Score(&r, "hidden gems")
	assert.Equal(t, 1.0, r.Score)
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	s := NewScoringService()

	inputs := []entities.SearchResult{
		{},
		{Name: "plain"},
		{Name: "underground", Source: entities.SourceReddit, Metadata: map[string]any{"score": 1000.0}},
	}
	for i := range inputs {
		s.Score(&inputs[i], "anything")
		assert.GreaterOrEqual(t, inputs[i].Score, 0.0)
		assert.LessOrEqual(t, inputs[i].Score, 1.0)
	}
}

func TestRank_SortsDescendingStable(t *testing.T) {
	s := NewScoringService()

	results := []entities.SearchResult{
		{Name: "plain listing", Source: entities.SourceEventbrite},
		{Name: "hidden underground bar", Source: entities.SourceReddit},
		{Name: "another plain listing", Source: entities.SourceEventbrite},
	}
	ranked := s.Rank(results, "bar")

	assert.Equal(t, "hidden underground bar", ranked[0].Name)
	// equal-score results keep their input order
	assert.Equal(t, "plain listing", ranked[1].Name)
	assert.Equal(t, "another plain listing", ranked[2].Name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestCategorize_PartitionsAtThreshold(t *testing.T) {
	s := NewScoringService()

	results := []entities.SearchResult{
		{Name: "high", Score: 0.8},
		{Name: "boundary", Score: 0.5},
		{Name: "low", Score: 0.49},
		{Name: "zero", Score: 0.0},
	}
	categorized := s.Categorize(results)

	require.Len(t, categorized.Primary, 2)
	require.Len(t, categorized.Nearby, 2)
	assert.Equal(t, entities.CategoryPrimary, categorized.Primary[0].Category)
	assert.Equal(t, entities.CategoryNearby, categorized.Nearby[0].Category)

	// partition: no loss, no duplication
	assert.Equal(t, len(results), len(categorized.Primary)+len(categorized.Nearby))

	// side effect on the input slice
	assert.Equal(t, entities.CategoryPrimary, results[1].Category)
	assert.Equal(t, entities.CategoryNearby, results[2].Category)
}

func TestSummarize_Empty(t *testing.T) {
	s := NewScoringService()

	summary := s.Summarize(nil)
	assert.Equal(t, entities.ScoringSummary{}, summary)
}

func TestSummarize_Stats(t *testing.T) {
	s := NewScoringService()

	summary := s.Summarize([]entities.SearchResult{
		{Score: 0.2}, {Score: 0.8}, {Score: 0.5},
	})
	assert.Equal(t, 3, summary.TotalResults)
	assert.InDelta(t, 0.5, summary.AverageScore, 0.0001)
	assert.Equal(t, 0.8, summary.MaxScore)
	assert.Equal(t, 0.2, summary.MinScore)
	assert.LessOrEqual(t, summary.MinScore, summary.AverageScore)
	assert.LessOrEqual(t, summary.AverageScore, summary.MaxScore)
}
