package exercise

import (
	"github.com/2beens/formfit/internal/pose"
)

const (
	DeadliftArmStraightMin = 170.0
	DeadliftLockoutMin     = 160.0
	DeadliftBottomMax      = 110.0
)

type DeadliftState struct {
	BarDown bool `json:"barDown"`
}

type DeadliftAngles struct {
	Knee  float64
	Elbow float64
}

// stepDeadlift checks arm straightness first. A bent arm frame leaves BarDown
// untouched, so a rep in progress continues once the arms are straight again.
func stepDeadlift(angles DeadliftAngles, prior DeadliftState) (DeadliftState, Feedback, bool) {
	switch {
	case angles.Elbow < DeadliftArmStraightMin:
		return prior, FeedbackKeepArmsStraight, false
	case angles.Knee > DeadliftLockoutMin && prior.BarDown:
		return DeadliftState{BarDown: false}, FeedbackGoodLockout, false
	case angles.Knee < DeadliftBottomMax && !prior.BarDown:
		return DeadliftState{BarDown: true}, FeedbackGoodDeadliftRep, true
	default:
		return prior, FeedbackLowerTheBar, false
	}
}

type Deadlift struct {
	side  Limb
	knee  pose.JointTriple
	elbow pose.JointTriple
	state DeadliftState
}

func NewDeadlift(side Limb) *Deadlift {
	return &Deadlift{
		side:  side,
		knee:  kneeTriple(side),
		elbow: elbowTriple(side),
		state: DeadliftState{BarDown: true},
	}
}

func (m *Deadlift) Kind() Kind {
	return KindDeadlift
}

func (m *Deadlift) State() DeadliftState {
	return m.state
}

func (m *Deadlift) Step(frame pose.Frame) Result {
	if !frame.Detected() {
		return noPoseResult(KindDeadlift)
	}
	kneeAngle, okKnee := frame.Angle(m.knee)
	elbowAngle, okElbow := frame.Angle(m.elbow)
	if !okKnee || !okElbow {
		return noPoseResult(KindDeadlift)
	}

	var counted bool
	result := Result{
		Exercise:     KindDeadlift,
		PoseDetected: true,
		Angles: map[string]float64{
			m.knee.Vertex.String():  kneeAngle,
			m.elbow.Vertex.String(): elbowAngle,
		},
	}
	m.state, result.Feedback, counted = stepDeadlift(
		DeadliftAngles{Knee: kneeAngle, Elbow: elbowAngle},
		m.state,
	)
	if counted {
		result.Events = []Event{NewRepEvent(m.side, frame.Timestamp)}
	}
	return result
}
