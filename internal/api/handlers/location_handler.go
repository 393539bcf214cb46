package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/underfoot/underfoot/internal/application/services"
	"github.com/underfoot/underfoot/internal/domain/entities"
)

// LocationHandler exposes location normalization as a standalone endpoint
type LocationHandler struct {
	locations *services.LocationService
}

func NewLocationHandler(locations *services.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type normalizeLocationRequest struct {
	Input string `json:"input"`
	Force bool   `json:"force"`
}

type normalizeLocationResponse struct {
	Normalized  string                `json:"normalized"`
	Confidence  float64               `json:"confidence"`
	Coordinates *entities.Coordinates `json:"coordinates,omitempty"`
	Debug       struct {
		RequestID       string `json:"request_id"`
		ExecutionTimeMs int64  `json:"execution_time_ms"`
	} `json:"debug"`
}

const maxLocationInputLength = 200

// NormalizeLocation handles POST /normalize-location
func (h *LocationHandler) NormalizeLocation(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	requestID := uuid.New().String()

	var req normalizeLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, "invalid request body", requestID)
		return
	}

	input := strings.TrimSpace(req.Input)
	if input == "" {
		respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, "input must not be empty", requestID)
		return
	}
	if len(input) > maxLocationInputLength {
		respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, "input must be at most 200 characters", requestID)
		return
	}

	normalized := h.locations.NormalizeWithOptions(r.Context(), input, req.Force)

	response := normalizeLocationResponse{
		Normalized:  normalized.Normalized,
		Confidence:  normalized.Confidence,
		Coordinates: normalized.Coordinates,
	}
	response.Debug.RequestID = requestID
	response.Debug.ExecutionTimeMs = time.Since(started).Milliseconds()

	respondWithJSON(w, http.StatusOK, response)
}
