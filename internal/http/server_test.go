package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/caseguard/internal/orchestrator"
)

func newTestServer(t *testing.T) (*Server, *orchestrator.Orchestrator) {
	t.Helper()
	orch, err := orchestrator.New(orchestrator.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { orch.Close() })

	s, err := NewServer(orch, nil, nil)
	require.NoError(t, err)
	return s, orch
}

func TestNewServer(t *testing.T) {
	t.Run("nil orchestrator rejected", func(t *testing.T) {
		_, err := NewServer(nil, nil, nil)
		require.Error(t, err)
	})

	t.Run("bad port rejected", func(t *testing.T) {
		orch, err := orchestrator.New(orchestrator.Options{})
		require.NoError(t, err)
		defer orch.Close()

		_, err = NewServer(orch, nil, &Config{Host: "localhost", Port: 70000})
		require.Error(t, err)
	})
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestServer_Status(t *testing.T) {
	s, orch := newTestServer(t)
	id := orch.CreateCase(context.Background(), "Alpha")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status orchestrator.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, id, status.ActiveCaseID)
	assert.Equal(t, "ready", status.AgentStatuses["frontline"])
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
