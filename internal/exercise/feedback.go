package exercise

import (
	"fmt"
	"time"
)

type Feedback string

const (
	FeedbackNoPose Feedback = "No pose detected"

	// bicep curls
	FeedbackArmExtended Feedback = "Arm Extended"
	FeedbackGoodCurl    Feedback = "Good Curl!"
	FeedbackCurlMore    Feedback = "Curl More!"

	// squats
	FeedbackGoodSquat       Feedback = "Good squat!"
	FeedbackStandUpStraight Feedback = "Stand up straight!"
	FeedbackGoLower         Feedback = "Go lower!"

	// deadlift
	FeedbackKeepArmsStraight Feedback = "Keep your arms straight!"
	FeedbackGoodLockout      Feedback = "Good lockout! Lower now."
	FeedbackGoodDeadliftRep  Feedback = "Good rep! Lift again."
	FeedbackLowerTheBar      Feedback = "Lower the bar and maintain form!"

	// shoulder press
	FeedbackArmsUp  Feedback = "Arms Up!"
	FeedbackGoUp    Feedback = "Go Up!"
	FeedbackNowDown Feedback = "Now Down!"

	// wall sit
	FeedbackHoldIt          Feedback = "Perfect form! Hold it."
	FeedbackGetIntoPosition Feedback = "Get into position!"
)

func (f Feedback) String() string {
	return string(f)
}

// Limb identifies which side of the body a rep is attributed to.
type Limb string

const (
	LimbLeft  Limb = "left"
	LimbRight Limb = "right"
)

func (l Limb) String() string {
	return string(l)
}

func (l Limb) IsValid() bool {
	return l == LimbLeft || l == LimbRight
}

// EventType can be one of:
//   - rep
//   - set
type EventType string

const (
	EventTypeRep EventType = "rep"
	EventTypeSet EventType = "set"
)

// Event is emitted by a machine when a repetition or a timed set is completed.
type Event struct {
	Type      EventType     `json:"type"`
	Limb      Limb          `json:"limb,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewRepEvent(limb Limb, ts time.Time) Event {
	return Event{
		Type:      EventTypeRep,
		Limb:      limb,
		Timestamp: ts,
	}
}

func NewSetEvent(duration time.Duration, ts time.Time) Event {
	return Event{
		Type:      EventTypeSet,
		Duration:  duration,
		Timestamp: ts,
	}
}

// Result is the per frame decision of a machine.
type Result struct {
	Exercise     Kind              `json:"exercise"`
	PoseDetected bool              `json:"poseDetected"`
	Feedback     Feedback          `json:"feedback"`
	LimbFeedback map[Limb]Feedback `json:"limbFeedback,omitempty"`
	// Angles holds the measured angles, keyed by the vertex joint
	Angles map[string]float64 `json:"angles,omitempty"`
	Events []Event            `json:"events,omitempty"`
}

func noPoseResult(kind Kind) Result {
	return Result{
		Exercise:     kind,
		PoseDetected: false,
		Feedback:     FeedbackNoPose,
	}
}

// Completed returns true if at least one rep or set was completed in this frame.
func (r Result) Completed() bool {
	return len(r.Events) > 0
}

// dualLimbFeedback composes the per arm labels into the single line shown on the overlay.
func dualLimbFeedback(right, left Feedback) Feedback {
	return Feedback(fmt.Sprintf("Right: %s | Left: %s", right, left))
}
