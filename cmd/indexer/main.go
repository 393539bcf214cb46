package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/adapters/database"
	"github.com/underfoot/underfoot/internal/application/services"
	"github.com/underfoot/underfoot/internal/domain/entities"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/openai"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	"github.com/underfoot/underfoot/internal/infrastructure/observability"
	"github.com/underfoot/underfoot/pkg/config"
)

// place is one backfill input record
type place struct {
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func main() {
	var file string
	var query string
	var limit int
	flag.StringVar(&file, "file", "", "JSON file of places to embed and store")
	flag.StringVar(&query, "query", "", "run a similarity search for this text after indexing")
	flag.IntVar(&limit, "limit", 10, "similarity search result limit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("underfoot-indexer", cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = observability.GetLogger().WithContext(ctx)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}

	embeddings := services.NewEmbeddingService(openaiClient, database.NewPlaceEmbeddingAdapter(pgClient))

	if file != "" {
		if err := indexFile(ctx, embeddings, file); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("backfill failed")
		}
	}

	if query != "" {
		hits, err := embeddings.SimilaritySearch(ctx, query, 0.5, limit)
		if err != nil {
			log.Fatal().Err(err).Msg("similarity search failed")
		}
		for _, hit := range hits {
			log.Info().
				Str("source", string(hit.Source)).
				Str("source_id", hit.SourceID).
				Float64("similarity", hit.Similarity).
				Interface("metadata", hit.Metadata).
				Msg("match")
		}
	}

	if file == "" && query == "" {
		flag.Usage()
		os.Exit(2)
	}
}

func indexFile(ctx context.Context, embeddings *services.EmbeddingService, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var places []place
	if err := json.Unmarshal(data, &places); err != nil {
		return err
	}

	indexed, skipped := 0, 0
	for _, p := range places {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metadata := map[string]any{"name": p.Name, "url": p.URL}
		text := p.Name + " " + p.Description
		if err := embeddings.StorePlaceEmbedding(ctx, entities.Source(p.Source), p.SourceID, text, metadata); err != nil {
			log.Warn().Err(err).Str("source_id", p.SourceID).Msg("skipping place")
			skipped++
			continue
		}
		indexed++
	}

	log.Info().Int("indexed", indexed).Int("skipped", skipped).Msg("backfill complete")
	return nil
}
