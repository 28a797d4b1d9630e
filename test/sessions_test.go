//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/formfit/internal/tracking"
	"github.com/2beens/formfit/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// both arms, elbows at 45 degrees
const curlContractedFrame = `{
	"landmarks": {
		"LEFT_SHOULDER":  {"x": 0.7, "y": 0.5},
		"LEFT_ELBOW":     {"x": 0.5, "y": 0.5},
		"LEFT_WRIST":     {"x": 0.6, "y": 0.6},
		"RIGHT_SHOULDER": {"x": 0.1, "y": 0.5},
		"RIGHT_ELBOW":    {"x": 0.3, "y": 0.5},
		"RIGHT_WRIST":    {"x": 0.2, "y": 0.6}
	}
}`

// both arms fully extended
const curlExtendedFrame = `{
	"landmarks": {
		"LEFT_SHOULDER":  {"x": 0.7, "y": 0.5},
		"LEFT_ELBOW":     {"x": 0.5, "y": 0.5},
		"LEFT_WRIST":     {"x": 0.3, "y": 0.5},
		"RIGHT_SHOULDER": {"x": 0.1, "y": 0.5},
		"RIGHT_ELBOW":    {"x": 0.3, "y": 0.5},
		"RIGHT_WRIST":    {"x": 0.5, "y": 0.5}
	}
}`

func (s *IntegrationTestSuite) TestCurlSessionToWorkout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, "POST", "/sessions", []byte(`{"exercise":"Bicep Curls","userId":42}`), true)
	require.Equal(t, http.StatusCreated, status, string(body))
	var startResp tracking.StartResponse
	require.NoError(t, json.Unmarshal(body, &startResp))
	sessionPath := "/sessions/" + startResp.ID

	for _, frame := range []string{curlContractedFrame, curlExtendedFrame, curlContractedFrame} {
		status, body = s.doRequest(ctx, "POST", sessionPath+"/frames", []byte(frame), true)
		require.Equal(t, http.StatusOK, status, string(body))
	}

	status, body = s.doRequest(ctx, "GET", sessionPath, nil, true)
	require.Equal(t, http.StatusOK, status)
	var snapshot tracking.SnapshotResponse
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, 4, snapshot.TotalReps)
	assert.Equal(t, 3, snapshot.Frames)

	status, body = s.doRequest(ctx, "POST", sessionPath+"/finish", nil, true)
	require.Equal(t, http.StatusCreated, status, string(body))
	var saved workouts.Workout
	require.NoError(t, json.Unmarshal(body, &saved))
	assert.Equal(t, 42, saved.UserID)
	assert.Equal(t, "Bicep Curls", saved.ExerciseType)
	assert.Equal(t, 4, saved.Reps)
	assert.Equal(t, "Right arm: 2 reps, Left arm: 2 reps", saved.Notes)

	var reps int
	require.NoError(t, s.dbPool.QueryRow(ctx, `SELECT reps FROM workout WHERE id = $1`, saved.ID).Scan(&reps))
	assert.Equal(t, 4, reps)

	status, _ = s.doRequest(ctx, "GET", sessionPath, nil, true)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.doRequest(ctx, "GET", "/workouts/user/42", nil, true)
	require.Equal(t, http.StatusOK, status)
	var listResp workouts.ListResponse
	require.NoError(t, json.Unmarshal(body, &listResp))
	require.Equal(t, 1, listResp.Total)
	assert.Equal(t, saved.ID, listResp.Workouts[0].ID)

	status, body = s.doRequest(ctx, "GET", "/workouts/user/42/stats", nil, true)
	require.Equal(t, http.StatusOK, status)
	var stats workouts.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.TotalWorkouts)

	status, _ = s.doRequest(ctx, "DELETE", fmt.Sprintf("/workouts/%d", saved.ID), nil, true)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.doRequest(ctx, "GET", fmt.Sprintf("/workouts/%d", saved.ID), nil, true)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestFinishWithoutReps() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.doRequest(ctx, "POST", "/sessions", []byte(`{"exercise":"wall_sit","userId":43}`), true)
	require.Equal(t, http.StatusCreated, status, string(body))
	var startResp tracking.StartResponse
	require.NoError(t, json.Unmarshal(body, &startResp))
	sessionPath := "/sessions/" + startResp.ID

	status, _ = s.doRequest(ctx, "POST", sessionPath+"/finish", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// still open, can be stopped without saving
	status, _ = s.doRequest(ctx, "DELETE", sessionPath, nil, true)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.doRequest(ctx, "GET", "/workouts/user/43", nil, true)
	require.Equal(t, http.StatusOK, status)
	var listResp workouts.ListResponse
	require.NoError(t, json.Unmarshal(body, &listResp))
	assert.Equal(t, 0, listResp.Total)
}
