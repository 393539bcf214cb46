package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ModelReply(t *testing.T) {
	completions := &stubCompletions{reply: `{"location": "Pikeville, KY", "intent": "hidden gems"}`}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "hidden gems in Pikeville KY")
	assert.Equal(t, "Pikeville, KY", parsed.Location)
	assert.Equal(t, "hidden gems", parsed.Intent)
	assert.Equal(t, 0.8, parsed.Confidence)

	require.Len(t, completions.calls, 1)
	assert.Equal(t, "hidden gems in Pikeville KY", completions.calls[0].UserPrompt)
	assert.Equal(t, 0.3, completions.calls[0].Temperature)
}

func TestParse_FencedModelReply(t *testing.T) {
	completions := &stubCompletions{reply: "```json\n{\"location\": \"Atlanta, GA\", \"intent\": \"underground spots\"}\n```"}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "cool underground spots near Atlanta")
	assert.Equal(t, "Atlanta, GA", parsed.Location)
	assert.Equal(t, 0.8, parsed.Confidence)
}

func TestParse_ModelFailureFallsBackToHeuristics(t *testing.T) {
	completions := &stubCompletions{err: errors.New("api down")}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "dive bars in Portland or")
	assert.Equal(t, "Portland or", parsed.Location)
	assert.Equal(t, "dive bars", parsed.Intent)
	assert.Equal(t, 0.6, parsed.Confidence)
}

func TestParse_MalformedJSONFallsBackToHeuristics(t *testing.T) {
	completions := &stubCompletions{reply: "sure! here are some spots"}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "weird stuff near Asheville")
	assert.Equal(t, "Asheville", parsed.Location)
	assert.Equal(t, "weird", parsed.Intent)
	assert.Equal(t, 0.6, parsed.Confidence)
}

func TestParse_HeuristicsWithoutLocation(t *testing.T) {
	completions := &stubCompletions{err: errors.New("api down")}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "somewhere quirky please")
	assert.Empty(t, parsed.Location)
	assert.Equal(t, "quirky", parsed.Intent)
	assert.Equal(t, 0.3, parsed.Confidence)
}

func TestParse_HeuristicDefaultIntent(t *testing.T) {
	completions := &stubCompletions{err: errors.New("api down")}
	s := NewQueryParserService(completions)

	parsed := s.Parse(context.Background(), "fun things near Tulsa")
	assert.Equal(t, "hidden gems", parsed.Intent)
}

func TestStripMarkdownFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripMarkdownFences(`{"a":1}`))
}
