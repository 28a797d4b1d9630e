package exercise

import (
	"time"

	"github.com/2beens/formfit/internal/pose"
)

const (
	WallSitKneeMin = 80.0
	WallSitKneeMax = 100.0

	// WallSitMinSetDuration is the hold time a sit has to exceed to count as a set.
	WallSitMinSetDuration = 2 * time.Second
)

type WallSitState struct {
	Sitting   bool      `json:"sitting"`
	StartedAt time.Time `json:"startedAt"`
}

// stepWallSit returns the completed set duration and true when a qualifying hold ends.
func stepWallSit(kneeAngle float64, now time.Time, prior WallSitState) (WallSitState, Feedback, time.Duration, bool) {
	if kneeAngle >= WallSitKneeMin && kneeAngle <= WallSitKneeMax {
		if !prior.Sitting {
			return WallSitState{Sitting: true, StartedAt: now}, FeedbackHoldIt, 0, false
		}
		return prior, FeedbackHoldIt, 0, false
	}

	if !prior.Sitting {
		return prior, FeedbackGetIntoPosition, 0, false
	}

	next := WallSitState{Sitting: false}
	duration := now.Sub(prior.StartedAt)
	if duration > WallSitMinSetDuration {
		return next, FeedbackGetIntoPosition, duration, true
	}
	return next, FeedbackGetIntoPosition, 0, false
}

type WallSit struct {
	knee  pose.JointTriple
	state WallSitState
}

func NewWallSit(side Limb) *WallSit {
	return &WallSit{
		knee: kneeTriple(side),
	}
}

func (m *WallSit) Kind() Kind {
	return KindWallSit
}

func (m *WallSit) State() WallSitState {
	return m.state
}

// HoldingSince returns the start of the current hold, if the user is holding the position.
func (m *WallSit) HoldingSince() (time.Time, bool) {
	return m.state.StartedAt, m.state.Sitting
}

func (m *WallSit) Step(frame pose.Frame) Result {
	if !frame.Detected() {
		return noPoseResult(KindWallSit)
	}
	kneeAngle, ok := frame.Angle(m.knee)
	if !ok {
		return noPoseResult(KindWallSit)
	}

	var duration time.Duration
	var completed bool
	result := Result{
		Exercise:     KindWallSit,
		PoseDetected: true,
		Angles: map[string]float64{
			m.knee.Vertex.String(): kneeAngle,
		},
	}
	m.state, result.Feedback, duration, completed = stepWallSit(kneeAngle, frame.Timestamp, m.state)
	if completed {
		result.Events = []Event{NewSetEvent(duration, frame.Timestamp)}
	}
	return result
}
