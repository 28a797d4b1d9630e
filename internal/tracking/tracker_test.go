package tracking_test

import (
	"testing"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/pose"
	"github.com/2beens/formfit/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Squats(t *testing.T) {
	clock := newFakeClock()
	tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
		ID:       "squats-1",
		UserID:   3,
		Exercise: exercise.KindSquat,
		Side:     exercise.LimbLeft,
		Now:      clock.Now,
	})
	require.NoError(t, err)
	assert.Equal(t, "squats-1", tracker.ID())
	assert.Equal(t, exercise.KindSquat, tracker.Exercise())

	clock.Advance(time.Second)
	res := tracker.ProcessFrame(kneeFrame(clock.Now(), 60))
	assert.True(t, res.PoseDetected)
	assert.Equal(t, exercise.FeedbackGoodSquat, res.Feedback)
	require.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.Snapshot.TotalReps)

	clock.Advance(time.Second)
	res = tracker.ProcessFrame(kneeFrame(clock.Now(), 60))
	assert.Empty(t, res.Events)
	assert.Equal(t, 1, res.Snapshot.TotalReps)

	clock.Advance(time.Second)
	res = tracker.ProcessFrame(kneeFrame(clock.Now(), 175))
	assert.Equal(t, exercise.FeedbackStandUpStraight, res.Feedback)

	clock.Advance(time.Second)
	res = tracker.ProcessFrame(kneeFrame(clock.Now(), 70))
	require.Len(t, res.Events, 1)

	clock.Advance(time.Second)
	res = tracker.ProcessFrame(pose.NoDetection(clock.Now()))
	assert.False(t, res.PoseDetected)
	assert.Equal(t, exercise.FeedbackNoPose, res.Feedback)

	snapshot := tracker.Snapshot()
	assert.Equal(t, "squats-1", snapshot.ID)
	assert.Equal(t, 3, snapshot.UserID)
	assert.Equal(t, 2, snapshot.TotalReps)
	assert.Equal(t, 2, snapshot.Counters.Reps(exercise.LimbLeft))
	assert.Equal(t, 5, snapshot.Frames)
	assert.Equal(t, 1, snapshot.NoPoseFrames)
	assert.Equal(t, exercise.FeedbackNoPose, snapshot.LastFeedback)
	assert.Equal(t, 5*time.Second, snapshot.Elapsed)
	assert.Equal(t, "0:05", snapshot.ElapsedClock())
	assert.Equal(t, 2, snapshot.Cadence.Reps)
	assert.Equal(t, 3*time.Second, snapshot.Cadence.MeanInterval)
}

func TestTracker_StampsFramesWithoutTimestamp(t *testing.T) {
	clock := newFakeClock()
	tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
		ID:       "sit-1",
		Exercise: exercise.KindWallSit,
		Side:     exercise.LimbLeft,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	res := tracker.ProcessFrame(kneeFrame(time.Time{}, 90))
	assert.Equal(t, exercise.FeedbackHoldIt, res.Feedback)
	assert.True(t, res.Snapshot.Holding)

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3*time.Second, tracker.Snapshot().DisplayHold)

	res = tracker.ProcessFrame(kneeFrame(time.Time{}, 150))
	require.Len(t, res.Events, 1)
	assert.Equal(t, exercise.EventTypeSet, res.Events[0].Type)
	assert.Equal(t, 3*time.Second, res.Events[0].Duration)
	assert.False(t, res.Snapshot.Holding)
	assert.Equal(t, 1, res.Snapshot.Counters.SetCount)
	assert.Equal(t, 3*time.Second, res.Snapshot.DisplayHold)
}

func TestTracker_WallSitHoldWithSkewedClientClock(t *testing.T) {
	for _, skew := range []time.Duration{30 * time.Second, -30 * time.Second, 0} {
		t.Run(skew.String(), func(t *testing.T) {
			clock := newFakeClock()
			tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
				ID:       "sit-skew",
				Exercise: exercise.KindWallSit,
				Side:     exercise.LimbLeft,
				Now:      clock.Now,
			})
			require.NoError(t, err)

			clientNow := func() time.Time { return clock.Now().Add(skew) }

			res := tracker.ProcessFrame(kneeFrame(clientNow(), 90))
			assert.True(t, res.Snapshot.Holding)
			assert.Equal(t, time.Duration(0), res.Snapshot.DisplayHold)

			clock.Advance(5 * time.Second)
			res = tracker.ProcessFrame(kneeFrame(clientNow(), 90))
			assert.True(t, res.Snapshot.Holding)
			assert.Equal(t, 5*time.Second, res.Snapshot.DisplayHold)

			// no frames for a while, the hold keeps running on the tracker clock
			clock.Advance(2 * time.Second)
			assert.Equal(t, 7*time.Second, tracker.Snapshot().DisplayHold)

			res = tracker.ProcessFrame(kneeFrame(clientNow(), 150))
			require.Len(t, res.Events, 1)
			assert.Equal(t, 7*time.Second, res.Events[0].Duration)
			assert.False(t, res.Snapshot.Holding)
			assert.Equal(t, 7*time.Second, res.Snapshot.DisplayHold)
		})
	}
}

func TestTracker_ResetKeepsMachineState(t *testing.T) {
	clock := newFakeClock()
	tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
		ID:       "curls-1",
		Exercise: exercise.KindBicepCurl,
		Side:     exercise.LimbLeft,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	res := tracker.ProcessFrame(curlFrame(clock.Now(), 30, 30))
	require.Len(t, res.Events, 2)
	assert.Equal(t, 2, res.Snapshot.TotalReps)

	clock.Advance(10 * time.Second)
	snapshot := tracker.Reset()
	assert.Equal(t, 0, snapshot.TotalReps)
	assert.Equal(t, clock.Now(), snapshot.Counters.StartedAt)
	assert.Equal(t, time.Duration(0), snapshot.Elapsed)

	// arms are still contracted, no new reps until they get extended again
	res = tracker.ProcessFrame(curlFrame(clock.Now(), 30, 30))
	assert.Empty(t, res.Events)

	res = tracker.ProcessFrame(curlFrame(clock.Now(), 160, 30))
	assert.Empty(t, res.Events)
	res = tracker.ProcessFrame(curlFrame(clock.Now(), 30, 30))
	require.Len(t, res.Events, 1)
	assert.Equal(t, exercise.LimbLeft, res.Events[0].Limb)
	assert.Equal(t, 1, res.Snapshot.Counters.Reps(exercise.LimbLeft))
	assert.Equal(t, 0, res.Snapshot.Counters.Reps(exercise.LimbRight))
}

func TestTracker_IdleFor(t *testing.T) {
	clock := newFakeClock()
	tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
		ID:       "press-1",
		Exercise: exercise.KindShoulderPress,
		Side:     exercise.LimbRight,
		Now:      clock.Now,
	})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.Equal(t, time.Minute, tracker.IdleFor())

	tracker.ProcessFrame(pose.NoDetection(clock.Now()))
	assert.Equal(t, time.Duration(0), tracker.IdleFor())
}

func TestNewTracker_InvalidSide(t *testing.T) {
	tracker, err := tracking.NewTracker(tracking.NewTrackerParams{
		ID:       "x",
		Exercise: exercise.KindSquat,
		Side:     exercise.Limb("middle"),
	})
	require.Error(t, err)
	assert.Nil(t, tracker)
}
