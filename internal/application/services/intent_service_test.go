package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/underfoot/underfoot/internal/domain/entities"
)

func TestExtract_LocationHint(t *testing.T) {
	s := NewIntentService()

	tests := []struct {
		input string
		want  string
	}{
		{"dive bars in Portland", "Portland"},
		{"hidden gems near New Orleans", "New Orleans"},
		{"things to do at Pike Place", "Pike Place"},
		{"weird stuff around Santa Fe this weekend", "Santa Fe"},
		{"hidden gems in Pikeville, KY", "Pikeville, KY"},
	}
	for _, tt := range tests {
		intent := s.Extract(tt.input)
		assert.Equal(t, tt.want, intent.LocationHint, "input: %q", tt.input)
	}
}

func TestExtract_NoLocation(t *testing.T) {
	s := NewIntentService()

	intent := s.Extract("somewhere weird to drink")
	assert.Empty(t, intent.LocationHint)
}

func TestExtract_DateHint(t *testing.T) {
	s := NewIntentService()

	tests := []struct {
		input string
		want  string
	}{
		{"concerts this weekend", "this weekend"},
		{"events next week in Austin", "next week"},
		{"what's happening tonight", "tonight"},
		{"festivals on 10/31", "10/31"},
		{"dive bars in Portland", ""},
	}
	for _, tt := range tests {
		intent := s.Extract(tt.input)
		assert.Equal(t, tt.want, intent.DateHint, "input: %q", tt.input)
	}
}

func TestExtract_Category(t *testing.T) {
	s := NewIntentService()

	tests := []struct {
		input string
		want  entities.QueryCategory
	}{
		{"best food trucks in Austin", entities.QueryFood},
		{"concert venues downtown", entities.QueryEvents},
		{"speakeasy bar crawl", entities.QueryNightlife},
		{"art gallery openings", entities.QueryCulture},
		{"hike near Boulder", entities.QueryOutdoor},
		{"hidden gems in Pikeville", entities.QueryGeneral},
		// food outranks nightlife when both match
		{"dinner and drinks", entities.QueryFood},
	}
	for _, tt := range tests {
		intent := s.Extract(tt.input)
		assert.Equal(t, tt.want, intent.Category, "input: %q", tt.input)
	}
}

func TestExtract_RawQueryPreserved(t *testing.T) {
	s := NewIntentService()

	intent := s.Extract("dive bars in Portland")
	assert.Equal(t, "dive bars in Portland", intent.RawQuery)
}

func TestVectorQuery(t *testing.T) {
	s := NewIntentService()

	intent := s.Extract("dive bars in Portland tonight")
	assert.Equal(t, "nightlife Portland tonight", s.VectorQuery(intent))
}

func TestVectorQuery_FallsBackToFirstFiveWords(t *testing.T) {
	s := NewIntentService()

	intent := entities.ParsedIntent{
		Category: entities.QueryGeneral,
		RawQuery: "somewhere strange and wonderful to wander for hours",
	}
	assert.Equal(t, "somewhere strange and wonderful to", s.VectorQuery(intent))
}

func TestVectorQuery_ShortRawQuery(t *testing.T) {
	s := NewIntentService()

	intent := entities.ParsedIntent{
		Category: entities.QueryGeneral,
		RawQuery: "weird stuff",
	}
	assert.Equal(t, "weird stuff", s.VectorQuery(intent))
}
