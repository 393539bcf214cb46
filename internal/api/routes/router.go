package routes

import (
	"net/http"

	"github.com/underfoot/underfoot/internal/api/handlers"
	"github.com/underfoot/underfoot/internal/api/middleware"
	"github.com/underfoot/underfoot/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler   *handlers.SearchHandler
	healthHandler   *handlers.HealthHandler
	locationHandler *handlers.LocationHandler
	sseHandler      *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	healthHandler *handlers.HealthHandler,
	locationHandler *handlers.LocationHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		searchHandler:   searchHandler,
		healthHandler:   healthHandler,
		locationHandler: locationHandler,
		sseHandler:      sseHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("POST /search", r.searchHandler.Search)
	r.mux.HandleFunc("POST /normalize-location", r.locationHandler.NormalizeLocation)

	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /stream/searches", r.sseHandler.StreamSearchEvents)
	}

	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}
