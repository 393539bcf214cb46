package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/domain/repositories"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// PlaceEmbeddingAdapter implements PlaceEmbeddingRepository on the
// place_embeddings table (pgvector column, ivfflat index). Similarity search
// goes through the search_places_by_similarity stored function so the
// operator and index choice stay in the database.
type PlaceEmbeddingAdapter struct {
	client *postgres.Client
}

// NewPlaceEmbeddingAdapter creates a new place embedding adapter.
func NewPlaceEmbeddingAdapter(client *postgres.Client) repositories.PlaceEmbeddingRepository {
	return &PlaceEmbeddingAdapter{client: client}
}

// Upsert stores a place vector keyed by (source, source_id).
func (a *PlaceEmbeddingAdapter) Upsert(ctx context.Context, embedding *entities.PlaceEmbedding) error {
	metadata, err := json.Marshal(embedding.Metadata)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal embedding metadata", err)
	}

	query := `
		INSERT INTO place_embeddings (source, source_id, embedding, metadata, updated_at)
		VALUES ($1, $2, $3::vector, $4, now())
		ON CONFLICT (source, source_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata, updated_at = now()
	`

	_, err = a.client.DB().ExecContext(ctx, query,
		string(embedding.Source),
		embedding.SourceID,
		vectorLiteral(embedding.Embedding),
		metadata,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to store place embedding", err)
	}

	return nil
}

// SearchSimilar returns places whose cosine similarity to the query vector
// exceeds the threshold, best first.
func (a *PlaceEmbeddingAdapter) SearchSimilar(ctx context.Context, queryEmbedding []float64, threshold float64, limit int) ([]entities.SimilarPlace, error) {
	query := `SELECT source, source_id, metadata, similarity FROM search_places_by_similarity($1::vector, $2, $3)`

	rows, err := a.client.DB().QueryContext(ctx, query, vectorLiteral(queryEmbedding), threshold, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("similarity search failed", err)
	}
	defer rows.Close()

	var places []entities.SimilarPlace
	for rows.Next() {
		var place entities.SimilarPlace
		var source string
		var metadata []byte
		if err := rows.Scan(&source, &place.SourceID, &metadata, &place.Similarity); err != nil {
			return nil, apperrors.NewInternalError("failed to scan similarity row", err)
		}
		place.Source = entities.Source(source)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &place.Metadata); err != nil {
				return nil, apperrors.NewInternalError("failed to unmarshal embedding metadata", err)
			}
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("similarity search failed", err)
	}

	return places, nil
}

func vectorLiteral(embedding []float64) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ","))
}
