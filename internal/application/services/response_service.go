package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
)

// ResponseService turns ranked places into a short narrated answer via the
// language-model collaborator, with deterministic templates when the model
// is unavailable. Synthesize never fails.
type ResponseService struct {
	completions providers.CompletionProvider
}

func NewResponseService(completions providers.CompletionProvider) *ResponseService {
	return &ResponseService{completions: completions}
}

const stonewalkerPrompt = `You are Stonewalker, a mystical and concise travel guide who uncovers hidden places.

Respond with wisdom and brevity in 2-3 sentences. Be helpful but never overly enthusiastic.
Reference the specific places found and give practical advice.

Style: Mystical, wise, slightly mysterious, but practical and helpful.`

const (
	synthesizeTemperature = 0.4
	synthesizeMaxTokens   = 300

	maxPlacesInPrompt    = 5
	maxDescriptionPrompt = 100
)

// Synthesize produces the user-facing response text from the top-ranked
// places and the scoring summary.
func (s *ResponseService) Synthesize(
	ctx context.Context,
	intent, location string,
	places []entities.Place,
	summary entities.ScoringSummary,
) string {
	top := places
	if len(top) > maxPlacesInPrompt {
		top = top[:maxPlacesInPrompt]
	}

	var lines []string
	for _, place := range top {
		lines = append(lines, fmt.Sprintf("• %s: %s", place.Name, truncateRunesafe(place.Description, maxDescriptionPrompt)))
	}

	userPrompt := fmt.Sprintf(`User seeks: %s in %s

Found places:
%s

Scoring summary: %d results, average score %.1f/1.0

Write a brief Stonewalker response.`,
		intent, location, strings.Join(lines, "\n"), summary.TotalResults, summary.AverageScore)

	reply, err := s.completions.Complete(ctx, providers.CompletionRequest{
		SystemPrompt: stonewalkerPrompt,
		UserPrompt:   userPrompt,
		Temperature:  synthesizeTemperature,
		MaxTokens:    synthesizeMaxTokens,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("response synthesis failed, using fallback")
		return fallbackResponse(intent, location, len(places))
	}
	if strings.TrimSpace(reply) == "" {
		return fallbackResponse(intent, location, len(places))
	}
	return reply
}

func fallbackResponse(intent, location string, total int) string {
	switch {
	case total == 0:
		return fmt.Sprintf("The paths around %s remain elusive for %s. Perhaps broaden your search or try a different approach. Sometimes the best discoveries lie in unexpected directions.", location, intent)
	case total >= 3:
		return fmt.Sprintf("%s reveals %d intriguing spots for %s. These places whisper of authentic experiences. Venture forth with curiosity and an open mind.", location, total, intent)
	default:
		return fmt.Sprintf("%s offers %d discoveries for %s. Some paths lead nearby, others require a short journey, but each promises something beyond the ordinary tourist trail.", location, total, intent)
	}
}

func truncateRunesafe(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
