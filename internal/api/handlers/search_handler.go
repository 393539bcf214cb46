package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/underfoot/underfoot/internal/application/services"
	apperrors "github.com/underfoot/underfoot/pkg/errors"
)

// SearchHandler handles the search orchestration endpoint
type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

type searchRequest struct {
	ChatInput string `json:"chat_input"`
	Force     bool   `json:"force"`
}

const (
	minChatInputLength = 1
	maxChatInputLength = 500
)

// validateChatInput enforces the request-body bound: 1..500 printable
// characters. The pipeline sanitizer applies its own, stricter rules after.
func validateChatInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) < minChatInputLength {
		return "", apperrors.NewValidationError("chat_input must not be empty")
	}
	if len(trimmed) > maxChatInputLength {
		return "", apperrors.NewValidationError("chat_input must be at most 500 characters")
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' {
			return "", apperrors.NewValidationError("chat_input contains non-printable characters")
		}
	}
	return trimmed, nil
}

// Search handles POST /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, "invalid request body", requestID)
		return
	}

	input, err := validateChatInput(req.ChatInput)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, err.Error(), requestID)
		return
	}

	response, err := h.search.Search(r.Context(), input, req.Force)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			respondWithError(w, http.StatusBadRequest, errorCodeUnderfoot, err.Error(), requestID)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Msg("search failed")
		respondWithError(w, http.StatusInternalServerError, errorCodeInternal, "Search failed", requestID)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
