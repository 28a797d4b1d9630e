package exercise

import (
	"github.com/2beens/formfit/internal/pose"
)

const (
	PressArmsUpMin   = 160.0
	PressArmsDownMax = 70.0
)

type ShoulderPressState struct {
	ArmsDown bool `json:"armsDown"`
}

func stepShoulderPress(elbowAngle float64, prior ShoulderPressState) (ShoulderPressState, Feedback, bool) {
	switch {
	case elbowAngle > PressArmsUpMin:
		return ShoulderPressState{ArmsDown: false}, FeedbackArmsUp, false
	case elbowAngle < PressArmsDownMax:
		if !prior.ArmsDown {
			return ShoulderPressState{ArmsDown: true}, FeedbackGoUp, true
		}
		return prior, FeedbackGoUp, false
	default:
		return prior, FeedbackNowDown, false
	}
}

type ShoulderPress struct {
	side  Limb
	elbow pose.JointTriple
	state ShoulderPressState
}

func NewShoulderPress(side Limb) *ShoulderPress {
	return &ShoulderPress{
		side:  side,
		elbow: elbowTriple(side),
		state: ShoulderPressState{ArmsDown: false},
	}
}

func (m *ShoulderPress) Kind() Kind {
	return KindShoulderPress
}

func (m *ShoulderPress) State() ShoulderPressState {
	return m.state
}

func (m *ShoulderPress) Step(frame pose.Frame) Result {
	if !frame.Detected() {
		return noPoseResult(KindShoulderPress)
	}
	elbowAngle, ok := frame.Angle(m.elbow)
	if !ok {
		return noPoseResult(KindShoulderPress)
	}

	var counted bool
	result := Result{
		Exercise:     KindShoulderPress,
		PoseDetected: true,
		Angles: map[string]float64{
			m.elbow.Vertex.String(): elbowAngle,
		},
	}
	m.state, result.Feedback, counted = stepShoulderPress(elbowAngle, m.state)
	if counted {
		result.Events = []Event{NewRepEvent(m.side, frame.Timestamp)}
	}
	return result
}
