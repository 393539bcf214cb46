package services

import (
	"regexp"
	"strings"

	"github.com/underfoot/underfoot/internal/domain/entities"
)

// IntentService derives a structured intent from sanitized text using pure
// pattern heuristics. It never performs I/O, so it runs on every request
// before the cache is even consulted.
type IntentService struct{}

func NewIntentService() *IntentService {
	return &IntentService{}
}

var (
	// prepositional form first, then bare "City, ST", then any capitalized run
	locationHintPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:in|at|near|around)\s+([A-Z][a-zA-Z]*(?:[\s,]+[A-Z][a-zA-Z]*)*)`),
		regexp.MustCompile(`\b([A-Z][a-zA-Z\s]+,\s*[A-Z]{2})\b`),
		regexp.MustCompile(`\b([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)\b`),
	}

	dateHintPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(this\s+(?:weekend|week|month))\b`),
		regexp.MustCompile(`(?i)\b(next\s+(?:weekend|week|month))\b`),
		regexp.MustCompile(`(?i)\b(tonight|today|tomorrow)\b`),
		regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`),
	}
)

// categoryKeywords is checked in order; the first category with a keyword
// hit wins.
var categoryKeywords = []struct {
	category entities.QueryCategory
	keywords []string
}{
	{entities.QueryFood, []string{"restaurant", "food", "eat", "dinner", "lunch"}},
	{entities.QueryEvents, []string{"event", "show", "concert", "festival"}},
	{entities.QueryNightlife, []string{"bar", "club", "drink", "nightlife"}},
	{entities.QueryCulture, []string{"museum", "art", "gallery", "exhibit"}},
	{entities.QueryOutdoor, []string{"outdoor", "hike", "park", "nature"}},
}

// Extract produces a ParsedIntent from sanitized input. Deterministic and
// total: it never fails, merely leaves hints empty when nothing matches.
func (s *IntentService) Extract(sanitized string) entities.ParsedIntent {
	intent := entities.ParsedIntent{
		Category: entities.QueryGeneral,
		RawQuery: sanitized,
	}

	for _, pattern := range locationHintPatterns {
		if match := pattern.FindStringSubmatch(sanitized); match != nil {
			intent.LocationHint = strings.TrimSpace(match[1])
			break
		}
	}

	for _, pattern := range dateHintPatterns {
		if match := pattern.FindStringSubmatch(sanitized); match != nil {
			intent.DateHint = strings.TrimSpace(match[1])
			break
		}
	}

	lower := strings.ToLower(sanitized)
	for _, entry := range categoryKeywords {
		matched := false
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if matched {
			intent.Category = entry.category
			break
		}
	}

	return intent
}

// VectorQuery builds a compact query for the embedding-search collaborator:
// non-default category + location hint + date hint, or the first five words
// of the raw query when all three are empty.
func (s *IntentService) VectorQuery(intent entities.ParsedIntent) string {
	parts := make([]string, 0, 3)

	if intent.Category != entities.QueryGeneral {
		parts = append(parts, string(intent.Category))
	}
	if intent.LocationHint != "" {
		parts = append(parts, intent.LocationHint)
	}
	if intent.DateHint != "" {
		parts = append(parts, intent.DateHint)
	}

	if len(parts) == 0 {
		words := strings.Fields(intent.RawQuery)
		if len(words) > 5 {
			words = words[:5]
		}
		return strings.Join(words, " ")
	}

	return strings.Join(parts, " ")
}
