package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/adapters/cache"
	"github.com/underfoot/underfoot/internal/adapters/database"
	"github.com/underfoot/underfoot/internal/adapters/events"
	"github.com/underfoot/underfoot/internal/adapters/providers/geocoding"
	"github.com/underfoot/underfoot/internal/adapters/sources"
	"github.com/underfoot/underfoot/internal/api/handlers"
	"github.com/underfoot/underfoot/internal/api/routes"
	"github.com/underfoot/underfoot/internal/application/services"
	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/openai"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/postgres"
	"github.com/underfoot/underfoot/internal/infrastructure/clients/redis"
	"github.com/underfoot/underfoot/internal/infrastructure/observability"
	"github.com/underfoot/underfoot/pkg/config"
)

const version = "0.1.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it the hot cache tier and event stream are
	// disabled but search still works against Postgres.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without hot cache tier")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}

	var geocoder providers.GeocodingProvider
	if cfg.Geocoding.Provider == "google" && cfg.Geocoding.APIKey != "" {
		geocoder = geocoding.NewGoogleGeocodingProvider(cfg.Geocoding.APIKey)
	} else {
		log.Warn().Msg("using mock geocoding provider")
		geocoder = geocoding.NewMockGeocodingProvider()
	}

	searchCacheRepo := database.NewSearchCacheAdapter(pgClient)
	locationCacheRepo := database.NewLocationCacheAdapter(pgClient)
	eventRepo := database.NewSearchEventAdapter(pgClient)
	embeddingRepo := database.NewPlaceEmbeddingAdapter(pgClient)

	searchSources := []providers.SearchSource{
		sources.NewSerpSource(cfg.SerpAPI.APIKey),
		sources.NewRedditSource(cfg.Reddit.UserAgent),
		sources.NewEventbriteSource(cfg.Eventbrite.Token),
	}

	searchService := services.NewSearchService(services.SearchServiceDeps{
		Sanitizer: services.NewInputSanitizerService(),
		Intents:   services.NewIntentService(),
		Parser:    services.NewQueryParserService(openaiClient),
		Locations: services.NewLocationService(geocoder, locationCacheRepo, cfg.Cache.LocationTTL),
		Retriever: services.NewRetrievalService(searchSources, metrics),
		Scorer:    services.NewScoringService(),
		Responder: services.NewResponseService(openaiClient),
		Cache:     services.NewResultCacheService(cacheProvider, searchCacheRepo, cfg.Cache.SearchResultsTTL, metrics),
		Events:    eventRepo,
		EventBus:  eventBus,
		Embedding: services.NewEmbeddingService(openaiClient, embeddingRepo),
	})

	locationService := services.NewLocationService(geocoder, locationCacheRepo, cfg.Cache.LocationTTL)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	router := routes.NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewHealthHandler(searchCacheRepo, cacheProvider, version),
		handlers.NewLocationHandler(locationService),
		sseHandler,
		metrics,
	)

	server := &http.Server{
		Addr:        cfg.Server.ServerAddr(),
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		// no write timeout: /stream/searches holds long-lived connections
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("event bus close failed")
		}
	}
}
