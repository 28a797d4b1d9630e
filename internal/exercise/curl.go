package exercise

import (
	"github.com/2beens/formfit/internal/pose"
)

const (
	CurlExtendedMin   = 150.0
	CurlContractedMax = 50.0

	// LegacyCurlContractedMax is the contraction threshold of an older curl tracker.
	// It rarely triggered and was raised to CurlContractedMax; kept for reference only.
	LegacyCurlContractedMax = 10.0
)

// ArmState is the state of a single arm doing curls.
type ArmState struct {
	Extended bool `json:"extended"`
}

// BicepCurlState tracks both arms independently.
type BicepCurlState struct {
	Left  ArmState `json:"left"`
	Right ArmState `json:"right"`
}

func NewBicepCurlState() BicepCurlState {
	return BicepCurlState{
		Left:  ArmState{Extended: true},
		Right: ArmState{Extended: true},
	}
}

// stepCurlArm is the transition function for one arm.
// A rep is counted only when entering the contracted band from the extended state.
func stepCurlArm(elbowAngle float64, prior ArmState) (ArmState, Feedback, bool) {
	switch {
	case elbowAngle > CurlExtendedMin:
		return ArmState{Extended: true}, FeedbackArmExtended, false
	case elbowAngle < CurlContractedMax:
		if prior.Extended {
			return ArmState{Extended: false}, FeedbackGoodCurl, true
		}
		return prior, FeedbackGoodCurl, false
	default:
		return prior, FeedbackCurlMore, false
	}
}

type BicepCurl struct {
	state BicepCurlState
}

func NewBicepCurl() *BicepCurl {
	return &BicepCurl{
		state: NewBicepCurlState(),
	}
}

func (m *BicepCurl) Kind() Kind {
	return KindBicepCurl
}

func (m *BicepCurl) State() BicepCurlState {
	return m.state
}

// Step needs both arms to be visible, otherwise the frame is skipped for both.
func (m *BicepCurl) Step(frame pose.Frame) Result {
	if !frame.Detected() {
		return noPoseResult(KindBicepCurl)
	}
	rightAngle, okRight := frame.Angle(pose.RightElbowTriple)
	leftAngle, okLeft := frame.Angle(pose.LeftElbowTriple)
	if !okRight || !okLeft {
		return noPoseResult(KindBicepCurl)
	}

	result := Result{
		Exercise:     KindBicepCurl,
		PoseDetected: true,
		LimbFeedback: make(map[Limb]Feedback, 2),
		Angles: map[string]float64{
			pose.RightElbow.String(): rightAngle,
			pose.LeftElbow.String():  leftAngle,
		},
	}

	var counted bool
	var rightFeedback, leftFeedback Feedback

	m.state.Right, rightFeedback, counted = stepCurlArm(rightAngle, m.state.Right)
	result.LimbFeedback[LimbRight] = rightFeedback
	if counted {
		result.Events = append(result.Events, NewRepEvent(LimbRight, frame.Timestamp))
	}

	m.state.Left, leftFeedback, counted = stepCurlArm(leftAngle, m.state.Left)
	result.LimbFeedback[LimbLeft] = leftFeedback
	if counted {
		result.Events = append(result.Events, NewRepEvent(LimbLeft, frame.Timestamp))
	}

	result.Feedback = dualLimbFeedback(rightFeedback, leftFeedback)
	return result
}
