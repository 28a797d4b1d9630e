package exercise

import (
	"github.com/2beens/formfit/internal/pose"
)

const (
	SquatDownMax     = 80.0
	SquatStandingMin = 170.0
)

type SquatState struct {
	Standing bool `json:"standing"`
}

func stepSquat(kneeAngle float64, prior SquatState) (SquatState, Feedback, bool) {
	switch {
	case kneeAngle < SquatDownMax:
		if prior.Standing {
			return SquatState{Standing: false}, FeedbackGoodSquat, true
		}
		return prior, FeedbackGoodSquat, false
	case kneeAngle > SquatStandingMin:
		return SquatState{Standing: true}, FeedbackStandUpStraight, false
	default:
		return prior, FeedbackGoLower, false
	}
}

type Squat struct {
	side  Limb
	knee  pose.JointTriple
	state SquatState
}

func NewSquat(side Limb) *Squat {
	return &Squat{
		side:  side,
		knee:  kneeTriple(side),
		state: SquatState{Standing: true},
	}
}

func (m *Squat) Kind() Kind {
	return KindSquat
}

func (m *Squat) State() SquatState {
	return m.state
}

func (m *Squat) Step(frame pose.Frame) Result {
	if !frame.Detected() {
		return noPoseResult(KindSquat)
	}
	kneeAngle, ok := frame.Angle(m.knee)
	if !ok {
		return noPoseResult(KindSquat)
	}

	var counted bool
	result := Result{
		Exercise:     KindSquat,
		PoseDetected: true,
		Angles: map[string]float64{
			m.knee.Vertex.String(): kneeAngle,
		},
	}
	m.state, result.Feedback, counted = stepSquat(kneeAngle, m.state)
	if counted {
		result.Events = []Event{NewRepEvent(m.side, frame.Timestamp)}
	}
	return result
}
