package exercise

import (
	"fmt"
	"time"

	"github.com/2beens/formfit/internal/pose"
)

// Machine consumes pose frames one at a time and owns the limb state of a single exercise.
// Frames without the required landmarks never change the state.
// Implementations are not safe for concurrent use, see tracking.Tracker.
type Machine interface {
	Kind() Kind
	Step(frame pose.Frame) Result
}

// Holder is implemented by hold based machines (wall sit).
type Holder interface {
	HoldingSince() (time.Time, bool)
}

var (
	_ Machine = (*BicepCurl)(nil)
	_ Machine = (*Squat)(nil)
	_ Machine = (*Deadlift)(nil)
	_ Machine = (*ShoulderPress)(nil)
	_ Machine = (*WallSit)(nil)
	_ Holder  = (*WallSit)(nil)
)

// New creates the machine for the given kind. Single side exercises
// measure the joints of the given side; bicep curls always track both arms.
func New(kind Kind, side Limb) (Machine, error) {
	if !side.IsValid() {
		return nil, fmt.Errorf("invalid tracked side: [%s]", side)
	}

	switch kind {
	case KindBicepCurl:
		return NewBicepCurl(), nil
	case KindSquat:
		return NewSquat(side), nil
	case KindDeadlift:
		return NewDeadlift(side), nil
	case KindShoulderPress:
		return NewShoulderPress(side), nil
	case KindWallSit:
		return NewWallSit(side), nil
	default:
		return nil, fmt.Errorf("%w: [%s]", ErrUnknownExercise, kind)
	}
}

func kneeTriple(side Limb) pose.JointTriple {
	if side == LimbRight {
		return pose.RightKneeTriple
	}
	return pose.LeftKneeTriple
}

func elbowTriple(side Limb) pose.JointTriple {
	if side == LimbRight {
		return pose.RightElbowTriple
	}
	return pose.LeftElbowTriple
}
