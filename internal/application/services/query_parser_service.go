package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

// QueryParserService derives {location, intent} from free text via the
// language-model collaborator, falling back to regex heuristics when the
// model is unavailable or returns garbage. Parse never fails; the
// orchestrator decides what an empty location means.
type QueryParserService struct {
	completions providers.CompletionProvider
}

func NewQueryParserService(completions providers.CompletionProvider) *QueryParserService {
	return &QueryParserService{completions: completions}
}

const parseSystemPrompt = `Parse travel queries into location and intent. Return JSON with "location" and "intent" fields.

Examples:
"hidden gems in Pikeville KY" -> {"location": "Pikeville, KY", "intent": "hidden gems"}
"cool underground spots near Atlanta" -> {"location": "Atlanta, GA", "intent": "underground spots"}
"weird stuff to do in Portland Oregon" -> {"location": "Portland, OR", "intent": "weird stuff"}

Extract the most specific location and the clearest intent description.`

const (
	parseTemperature = 0.3
	parseMaxTokens   = 200

	confidenceModelParse        = 0.8
	confidenceHeuristicLocation = 0.6
	confidenceHeuristicNone     = 0.3
)

// Heuristic location patterns, tried in priority order against the
// original-cased input.
var heuristicLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)in\s+([^,]+,?\s*[a-z]{2})\b`),
	regexp.MustCompile(`(?i)near\s+([^,]+)`),
	regexp.MustCompile(`(?i)([^,]+,\s*[a-z]{2})\b`),
	regexp.MustCompile(`(?i)([a-z\s]+(?:city|town|ville|burg|port))\b`),
}

// intentKeywords is checked against the lowercased input; first hit wins,
// "hidden gems" is the default.
var intentKeywords = []string{
	"hidden gems",
	"underground",
	"secret spots",
	"locals only",
	"offbeat",
	"weird",
	"strange",
	"unique",
	"quirky",
	"dive bars",
	"hole in the wall",
	"authentic",
	"indie",
	"alternative",
}

type parsedInputJSON struct {
	Location string `json:"location"`
	Intent   string `json:"intent"`
}

// Parse returns a best-effort ParsedInput. Confidence encodes the path
// taken: 0.8 model, 0.6 heuristic with a location, 0.3 heuristic without.
func (s *QueryParserService) Parse(ctx context.Context, sanitized string) entities.ParsedInput {
	reply, err := s.completions.Complete(ctx, providers.CompletionRequest{
		SystemPrompt: parseSystemPrompt,
		UserPrompt:   sanitized,
		Temperature:  parseTemperature,
		MaxTokens:    parseMaxTokens,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("input_preview", preview(sanitized, 100)).
			Msg("model parse failed, using heuristics")
		return s.parseHeuristically(sanitized)
	}

	var parsed parsedInputJSON
	if err := json.Unmarshal([]byte(stripMarkdownFences(reply)), &parsed); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("model parse returned malformed JSON, using heuristics")
		return s.parseHeuristically(sanitized)
	}

	return entities.ParsedInput{
		Location:   parsed.Location,
		Intent:     parsed.Intent,
		Confidence: confidenceModelParse,
	}
}

func (s *QueryParserService) parseHeuristically(input string) entities.ParsedInput {
	location := ""
	for _, pattern := range heuristicLocationPatterns {
		if match := pattern.FindStringSubmatch(input); match != nil {
			location = strings.TrimSpace(match[1])
			break
		}
	}

	lower := strings.ToLower(input)
	intent := "hidden gems"
	for _, keyword := range intentKeywords {
		if strings.Contains(lower, keyword) {
			intent = keyword
			break
		}
	}

	confidence := confidenceHeuristicNone
	if location != "" {
		confidence = confidenceHeuristicLocation
	}

	return entities.ParsedInput{
		Location:   location,
		Intent:     intent,
		Confidence: confidence,
	}
}

// stripMarkdownFences removes a ```json ... ``` wrapper that some models
// insist on adding around JSON replies.
func stripMarkdownFences(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
