package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// InputSanitizerService validates and cleans raw user queries before any
// of them reach a prompt or an upstream request.
type InputSanitizerService struct{}

func NewInputSanitizerService() *InputSanitizerService {
	return &InputSanitizerService{}
}

const (
	minQueryLength = 1
	maxQueryLength = 1000

	maxStructuralChars = 10
	maxNewlines        = 20
)

// Patterns that indicate an attempt to steer the language model rather
// than ask a travel question.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(everything|all|previous)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+`),
	regexp.MustCompile(`(?i)act\s+as\s+(if|a|an)\s+`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)new\s+(instructions?|prompts?|system)`),
	regexp.MustCompile(`(?i)system\s*(prompt|message|instruction)`),
	regexp.MustCompile(`(?i)\[\s*(INST|SYS|system)\s*\]`),
	regexp.MustCompile(`(?i)<\|?(im_start|im_end|system|endoftext)\|?>`),
	regexp.MustCompile(`(?i)reveal\s+(your|the)\s+(prompt|instructions?)`),
	regexp.MustCompile(`(?i)output\s+(your|the)\s+(prompt|instructions?)`),
}

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]*>`)
	structuralPattern  = regexp.MustCompile(`[<>{}\[\]|\\]`)
	controlCharPattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	whitespaceRuns     = regexp.MustCompile(`[ \t]+`)
)

// Sanitize validates the raw query and returns a cleaned copy safe to embed
// in prompts and upstream query strings. Any rejection is a validation error.
func (s *InputSanitizerService) Sanitize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	length := utf8.RuneCountInString(trimmed)
	if length < minQueryLength {
		return "", apperrors.NewValidationError("query must not be empty")
	}
	if length > maxQueryLength {
		return "", apperrors.NewValidationError("query exceeds maximum length of 1000 characters")
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(trimmed) {
			return "", apperrors.NewValidationError("query contains disallowed instruction patterns")
		}
	}

	if len(structuralPattern.FindAllString(trimmed, -1)) > maxStructuralChars {
		return "", apperrors.NewValidationError("query contains too many structural characters")
	}
	if strings.Count(trimmed, "\n") > maxNewlines {
		return "", apperrors.NewValidationError("query contains too many line breaks")
	}

	cleaned := htmlTagPattern.ReplaceAllString(trimmed, "")
	cleaned = controlCharPattern.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", apperrors.NewValidationError("query is empty after sanitization")
	}

	return cleaned, nil
}
