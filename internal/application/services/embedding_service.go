package services

import (
	"context"
	"regexp"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// EmbeddingService stores place vectors and answers nearest-neighbor lookups.
// It is decoupled from the search pipeline: orchestration calls it
// best-effort after a run, and the backfill command drives it directly.
type EmbeddingService struct {
	embedder providers.EmbeddingProvider
	repo     repositories.PlaceEmbeddingRepository
}

func NewEmbeddingService(embedder providers.EmbeddingProvider, repo repositories.PlaceEmbeddingRepository) *EmbeddingService {
	return &EmbeddingService{embedder: embedder, repo: repo}
}

const maxEmbeddingTextLength = 8000

var (
	redditIDPattern     = regexp.MustCompile(`^[a-z0-9_]+$`)
	eventbriteIDPattern = regexp.MustCompile(`^\d+$`)
)

func validateSourceID(source entities.Source, sourceID string) error {
	if sourceID == "" {
		return apperrors.NewValidationError("source id must not be empty")
	}
	switch source {
	case entities.SourceReddit:
		if !redditIDPattern.MatchString(sourceID) {
			return apperrors.NewValidationError("reddit source id must be lowercase alphanumeric")
		}
	case entities.SourceEventbrite:
		if !eventbriteIDPattern.MatchString(sourceID) {
			return apperrors.NewValidationError("eventbrite source id must be numeric")
		}
	case entities.SourceSerp:
		if len(sourceID) < 8 {
			return apperrors.NewValidationError("serp source id must be at least 8 characters")
		}
	default:
		return apperrors.NewValidationError("unknown source")
	}
	return nil
}

// StorePlaceEmbedding embeds the given text and upserts the vector keyed by
// (source, source id). Metadata must carry a non-empty place name.
func (s *EmbeddingService) StorePlaceEmbedding(
	ctx context.Context,
	source entities.Source,
	sourceID, text string,
	metadata map[string]any,
) error {
	if err := validateSourceID(source, sourceID); err != nil {
		return err
	}
	if text == "" {
		return apperrors.NewValidationError("embedding text must not be empty")
	}
	if len(text) > maxEmbeddingTextLength {
		text = text[:maxEmbeddingTextLength]
	}
	name, _ := metadata["name"].(string)
	if name == "" {
		return apperrors.NewValidationError("metadata must include a place name")
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return apperrors.NewExternalError("embedding generation failed", err)
	}

	return s.repo.Upsert(ctx, &entities.PlaceEmbedding{
		Source:    source,
		SourceID:  sourceID,
		Embedding: vector,
		Metadata:  metadata,
	})
}

// SimilaritySearch embeds the query and returns the closest stored places.
// Limit must be in [1,100], threshold in [0,1].
func (s *EmbeddingService) SimilaritySearch(
	ctx context.Context,
	query string,
	threshold float64,
	limit int,
) ([]entities.SimilarPlace, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query must not be empty")
	}
	if limit < 1 || limit > 100 {
		return nil, apperrors.NewValidationError("limit must be between 1 and 100")
	}
	if threshold < 0 || threshold > 1 {
		return nil, apperrors.NewValidationError("threshold must be between 0 and 1")
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperrors.NewExternalError("query embedding failed", err)
	}

	return s.repo.SearchSimilar(ctx, vector, threshold, limit)
}
