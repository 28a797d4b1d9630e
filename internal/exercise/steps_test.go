package exercise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepCurlArm_Thresholds(t *testing.T) {
	extended := ArmState{Extended: true}
	contracted := ArmState{Extended: false}

	testCases := []struct {
		name          string
		angle         float64
		prior         ArmState
		expectedState ArmState
		expectedLabel Feedback
		expectedCount bool
	}{
		{"above extended", 151, contracted, extended, FeedbackArmExtended, false},
		{"extended boundary is not extended", 150, contracted, contracted, FeedbackCurlMore, false},
		{"middle band keeps state", 100, extended, extended, FeedbackCurlMore, false},
		{"contracted boundary is not contracted", 50, extended, extended, FeedbackCurlMore, false},
		{"curl from extended counts", 49, extended, contracted, FeedbackGoodCurl, true},
		{"curl while contracted does not count", 20, contracted, contracted, FeedbackGoodCurl, false},
		{"legacy threshold is not used", 30, extended, contracted, FeedbackGoodCurl, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, label, counted := stepCurlArm(tc.angle, tc.prior)
			assert.Equal(t, tc.expectedState, state)
			assert.Equal(t, tc.expectedLabel, label)
			assert.Equal(t, tc.expectedCount, counted)
		})
	}
}

func TestStepSquat_Thresholds(t *testing.T) {
	standing := SquatState{Standing: true}
	squatting := SquatState{Standing: false}

	state, label, counted := stepSquat(79, standing)
	assert.Equal(t, squatting, state)
	assert.Equal(t, FeedbackGoodSquat, label)
	assert.True(t, counted)

	state, label, counted = stepSquat(79, squatting)
	assert.Equal(t, squatting, state)
	assert.Equal(t, FeedbackGoodSquat, label)
	assert.False(t, counted)

	state, label, counted = stepSquat(80, standing)
	assert.Equal(t, standing, state)
	assert.Equal(t, FeedbackGoLower, label)
	assert.False(t, counted)

	state, label, _ = stepSquat(170, squatting)
	assert.Equal(t, squatting, state)
	assert.Equal(t, FeedbackGoLower, label)

	state, label, _ = stepSquat(171, squatting)
	assert.Equal(t, standing, state)
	assert.Equal(t, FeedbackStandUpStraight, label)
}

func TestStepDeadlift_Thresholds(t *testing.T) {
	barDown := DeadliftState{BarDown: true}
	barUp := DeadliftState{BarDown: false}

	// arms gate wins over everything, state untouched
	state, label, counted := stepDeadlift(DeadliftAngles{Knee: 100, Elbow: 169}, barUp)
	assert.Equal(t, barUp, state)
	assert.Equal(t, FeedbackKeepArmsStraight, label)
	assert.False(t, counted)

	state, label, counted = stepDeadlift(DeadliftAngles{Knee: 165, Elbow: 170}, barDown)
	assert.Equal(t, barUp, state)
	assert.Equal(t, FeedbackGoodLockout, label)
	assert.False(t, counted)

	state, label, counted = stepDeadlift(DeadliftAngles{Knee: 109, Elbow: 175}, barUp)
	assert.Equal(t, barDown, state)
	assert.Equal(t, FeedbackGoodDeadliftRep, label)
	assert.True(t, counted)

	// lockout while the bar is already up
	state, label, counted = stepDeadlift(DeadliftAngles{Knee: 165, Elbow: 175}, barUp)
	assert.Equal(t, barUp, state)
	assert.Equal(t, FeedbackLowerTheBar, label)
	assert.False(t, counted)

	// bottom while the bar is already down
	state, label, counted = stepDeadlift(DeadliftAngles{Knee: 100, Elbow: 175}, barDown)
	assert.Equal(t, barDown, state)
	assert.Equal(t, FeedbackLowerTheBar, label)
	assert.False(t, counted)

	state, label, _ = stepDeadlift(DeadliftAngles{Knee: 160, Elbow: 175}, barDown)
	assert.Equal(t, barDown, state)
	assert.Equal(t, FeedbackLowerTheBar, label)
}

func TestStepShoulderPress_Thresholds(t *testing.T) {
	up := ShoulderPressState{ArmsDown: false}
	down := ShoulderPressState{ArmsDown: true}

	state, label, counted := stepShoulderPress(161, down)
	assert.Equal(t, up, state)
	assert.Equal(t, FeedbackArmsUp, label)
	assert.False(t, counted)

	state, label, counted = stepShoulderPress(69, up)
	assert.Equal(t, down, state)
	assert.Equal(t, FeedbackGoUp, label)
	assert.True(t, counted)

	state, label, counted = stepShoulderPress(40, down)
	assert.Equal(t, down, state)
	assert.Equal(t, FeedbackGoUp, label)
	assert.False(t, counted)

	state, label, counted = stepShoulderPress(70, up)
	assert.Equal(t, up, state)
	assert.Equal(t, FeedbackNowDown, label)
	assert.False(t, counted)

	state, label, _ = stepShoulderPress(160, down)
	assert.Equal(t, down, state)
	assert.Equal(t, FeedbackNowDown, label)
}

func TestStepWallSit_Band(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	notSitting := WallSitState{}

	for _, angle := range []float64{80, 90, 100} {
		state, label, _, completed := stepWallSit(angle, now, notSitting)
		assert.True(t, state.Sitting, "angle %f", angle)
		assert.Equal(t, now, state.StartedAt)
		assert.Equal(t, FeedbackHoldIt, label)
		assert.False(t, completed)
	}

	for _, angle := range []float64{79.9, 100.1, 170} {
		state, label, _, completed := stepWallSit(angle, now, notSitting)
		assert.False(t, state.Sitting, "angle %f", angle)
		assert.Equal(t, FeedbackGetIntoPosition, label)
		assert.False(t, completed)
	}
}

func TestStepWallSit_HoldKeepsStart(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sitting := WallSitState{Sitting: true, StartedAt: start}

	state, _, _, completed := stepWallSit(95, start.Add(10*time.Second), sitting)
	assert.Equal(t, sitting, state)
	assert.False(t, completed)
}

func TestStepWallSit_MinimumDuration(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sitting := WallSitState{Sitting: true, StartedAt: start}

	// exactly the minimum is not enough
	state, label, _, completed := stepWallSit(150, start.Add(WallSitMinSetDuration), sitting)
	assert.False(t, state.Sitting)
	assert.Equal(t, FeedbackGetIntoPosition, label)
	assert.False(t, completed)

	state, _, duration, completed := stepWallSit(150, start.Add(2500*time.Millisecond), sitting)
	assert.False(t, state.Sitting)
	assert.True(t, completed)
	assert.Equal(t, 2500*time.Millisecond, duration)
}
