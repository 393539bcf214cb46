package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/underfoot/underfoot/internal/api/handlers"
	"github.com/underfoot/underfoot/internal/application/services"
)

func TestLocationHandler_Success(t *testing.T) {
	locations := services.NewLocationService(&cannedGeocoder{}, nil, time.Hour)
	handler := handlers.NewLocationHandler(locations)

	req := httptest.NewRequest("POST", "/normalize-location", strings.NewReader(`{"input": "Pikeville KY"}`))
	w := httptest.NewRecorder()
	handler.NormalizeLocation(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Pikeville, KY 41501, USA", response["normalized"])
	assert.Equal(t, 0.7, response["confidence"])
	assert.NotNil(t, response["coordinates"])
}

func TestLocationHandler_EmptyInput(t *testing.T) {
	locations := services.NewLocationService(&cannedGeocoder{}, nil, time.Hour)
	handler := handlers.NewLocationHandler(locations)

	req := httptest.NewRequest("POST", "/normalize-location", strings.NewReader(`{"input": "  "}`))
	w := httptest.NewRecorder()
	handler.NormalizeLocation(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationHandler_InputTooLong(t *testing.T) {
	locations := services.NewLocationService(&cannedGeocoder{}, nil, time.Hour)
	handler := handlers.NewLocationHandler(locations)

	body := `{"input": "` + strings.Repeat("a", 201) + `"}`
	req := httptest.NewRequest("POST", "/normalize-location", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.NormalizeLocation(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
