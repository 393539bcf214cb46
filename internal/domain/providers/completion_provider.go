package providers

import (
	"context"
)

// CompletionRequest is a single prompt for the language-model collaborator
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// CompletionProvider is the language-model completion boundary.
// Implementations return errors; callers own their fallback policy.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// EmbeddingProvider generates vector embeddings for text
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
