package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/underfoot/underfoot/internal/api/handlers"
	"github.com/underfoot/underfoot/internal/domain/repositories"
)

type cannedStorage struct {
	err error
}

func (c *cannedStorage) Get(_ context.Context, _ string) (json.RawMessage, error) {
	return nil, errors.New("not found")
}

func (c *cannedStorage) Store(_ context.Context, _ repositories.CachedSearchRow) error {
	return nil
}

func (c *cannedStorage) Count(_ context.Context) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return 42, nil
}

type cannedCache struct {
	err error
}

func (c *cannedCache) Get(_ context.Context, _ string) ([]byte, error) { return nil, c.err }

func (c *cannedCache) Set(_ context.Context, _ string, _ []byte, _ int) error { return c.err }

func (c *cannedCache) Delete(_ context.Context, _ string) error { return c.err }

func (c *cannedCache) Exists(_ context.Context, _ string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return false, nil
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	handler := handlers.NewHealthHandler(&cannedStorage{}, &cannedCache{}, "1.2.3")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "1.2.3", response["version"])

	deps := response["dependencies"].(map[string]any)
	assert.Equal(t, "healthy", deps["storage"].(map[string]any)["status"])
	assert.Equal(t, "healthy", deps["cache"].(map[string]any)["status"])
}

func TestHealthHandler_DegradedDependenciesStill200(t *testing.T) {
	handler := handlers.NewHealthHandler(
		&cannedStorage{err: errors.New("connection refused")},
		&cannedCache{err: errors.New("redis down")},
		"1.2.3",
	)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	deps := response["dependencies"].(map[string]any)
	storage := deps["storage"].(map[string]any)
	assert.Equal(t, "degraded", storage["status"])
	assert.Contains(t, storage["error"], "connection refused")
}

func TestHealthHandler_NilDependencies(t *testing.T) {
	handler := handlers.NewHealthHandler(nil, nil, "dev")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
