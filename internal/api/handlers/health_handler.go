package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/underfoot/underfoot/internal/domain/providers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
)

// HealthHandler reports service liveness and dependency status. It always
// answers 200; a broken dependency degrades its entry, never the endpoint.
type HealthHandler struct {
	storage repositories.SearchCacheRepository
	cache   providers.CacheProvider
	version string
}

func NewHealthHandler(storage repositories.SearchCacheRepository, cache providers.CacheProvider, version string) *HealthHandler {
	return &HealthHandler{storage: storage, cache: cache, version: version}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status       string                      `json:"status"`
	Timestamp    string                      `json:"timestamp"`
	ElapsedMs    int64                       `json:"elapsed_ms"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
	Version      string                      `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dependencies := make(map[string]dependencyStatus, 2)

	if h.storage != nil {
		if _, err := h.storage.Count(ctx); err != nil {
			dependencies["storage"] = dependencyStatus{Status: "degraded", Error: err.Error()}
		} else {
			dependencies["storage"] = dependencyStatus{Status: "healthy"}
		}
	} else {
		dependencies["storage"] = dependencyStatus{Status: "degraded", Error: "not configured"}
	}

	if h.cache != nil {
		if _, err := h.cache.Exists(ctx, "health:probe"); err != nil {
			dependencies["cache"] = dependencyStatus{Status: "degraded", Error: err.Error()}
		} else {
			dependencies["cache"] = dependencyStatus{Status: "healthy"}
		}
	} else {
		dependencies["cache"] = dependencyStatus{Status: "degraded", Error: "not configured"}
	}

	respondWithJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		ElapsedMs:    time.Since(started).Milliseconds(),
		Dependencies: dependencies,
		Version:      h.version,
	})
}
