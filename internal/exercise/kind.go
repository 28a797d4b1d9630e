package exercise

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownExercise = errors.New("unknown exercise")

// Kind can be one of:
//   - bicep_curl
//   - squat
//   - deadlift
//   - shoulder_press
//   - wall_sit
type Kind string

const (
	KindBicepCurl     Kind = "bicep_curl"
	KindSquat         Kind = "squat"
	KindDeadlift      Kind = "deadlift"
	KindShoulderPress Kind = "shoulder_press"
	KindWallSit       Kind = "wall_sit"
)

var allKinds = []Kind{
	KindBicepCurl,
	KindSquat,
	KindDeadlift,
	KindShoulderPress,
	KindWallSit,
}

// aliases map the display names used by the frontend to kinds
var aliases = map[string]Kind{
	"bicep_curls":      KindBicepCurl,
	"curl":             KindBicepCurl,
	"curls":            KindBicepCurl,
	"squats":           KindSquat,
	"deadlifts":        KindDeadlift,
	"shoulder_presses": KindShoulderPress,
	"press":            KindShoulderPress,
	"wallsit":          KindWallSit,
	"wall_seat":        KindWallSit,
}

func Kinds() []Kind {
	kinds := make([]Kind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// ParseKind accepts both kind ids (bicep_curl) and display names (Bicep Curls).
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	k := Kind(normalized)
	if k.IsValid() {
		return k, nil
	}
	if k, ok := aliases[normalized]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: [%s]", ErrUnknownExercise, name)
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindBicepCurl,
		KindSquat,
		KindDeadlift,
		KindShoulderPress,
		KindWallSit:
		return true
	default:
		return false
	}
}

func (k Kind) DisplayName() string {
	switch k {
	case KindBicepCurl:
		return "Bicep Curls"
	case KindSquat:
		return "Squats"
	case KindDeadlift:
		return "Deadlift"
	case KindShoulderPress:
		return "Shoulder Press"
	case KindWallSit:
		return "Wall Sit"
	default:
		return string(k)
	}
}

// HoldBased is true for exercises counted in timed sets instead of reps.
func (k Kind) HoldBased() bool {
	return k == KindWallSit
}
