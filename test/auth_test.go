//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/formfit/internal/misc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestPublicRoutes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, "GET", "/version", nil, false)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-version-info", string(body))

	status, body = s.doRequest(ctx, "GET", "/health", nil, false)
	require.Equal(t, http.StatusOK, status)
	var health misc.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}, health.Dependencies)

	status, _ = s.doRequest(ctx, "GET", "/exercises", nil, false)
	assert.Equal(t, http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestProtectedRoutes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, _ := s.doRequest(ctx, "GET", "/sessions", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, "POST", "/sessions", []byte(`{"exercise":"squat"}`), false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, "GET", "/workouts/user/1", nil, false)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, "GET", "/workouts/user/1", nil, true)
	assert.Equal(t, http.StatusOK, status)
}
