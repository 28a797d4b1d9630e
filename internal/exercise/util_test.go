package exercise_test

import (
	"math"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/pose"
)

var testStart = time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

// frameWithAngles places the landmarks of each triple so that the
// angle measured at its vertex equals the given value.
func frameWithAngles(ts time.Time, angles map[pose.JointTriple]float64) pose.Frame {
	landmarks := make(map[pose.Joint]pose.Point2D)
	for triple, deg := range angles {
		vertex := pose.Point2D{X: 0.5, Y: 0.5}
		rad := deg * math.Pi / 180
		landmarks[triple.Proximal] = pose.Point2D{X: vertex.X + 0.2, Y: vertex.Y}
		landmarks[triple.Vertex] = vertex
		landmarks[triple.Distal] = pose.Point2D{
			X: vertex.X + 0.2*math.Cos(rad),
			Y: vertex.Y + 0.2*math.Sin(rad),
		}
	}
	return pose.NewFrame(ts, landmarks)
}

func curlFrame(ts time.Time, left, right float64) pose.Frame {
	return frameWithAngles(ts, map[pose.JointTriple]float64{
		pose.LeftElbowTriple:  left,
		pose.RightElbowTriple: right,
	})
}

func kneeFrame(ts time.Time, knee float64) pose.Frame {
	return frameWithAngles(ts, map[pose.JointTriple]float64{
		pose.LeftKneeTriple: knee,
	})
}

func elbowFrame(ts time.Time, elbow float64) pose.Frame {
	return frameWithAngles(ts, map[pose.JointTriple]float64{
		pose.LeftElbowTriple: elbow,
	})
}

func deadliftFrame(ts time.Time, knee, elbow float64) pose.Frame {
	return frameWithAngles(ts, map[pose.JointTriple]float64{
		pose.LeftKneeTriple:  knee,
		pose.LeftElbowTriple: elbow,
	})
}

func countReps(events []exercise.Event, limb exercise.Limb) int {
	count := 0
	for _, e := range events {
		if e.Type == exercise.EventTypeRep && e.Limb == limb {
			count++
		}
	}
	return count
}

func runFrames(m exercise.Machine, frames []pose.Frame) ([]exercise.Result, []exercise.Event) {
	results := make([]exercise.Result, 0, len(frames))
	var events []exercise.Event
	for _, f := range frames {
		res := m.Step(f)
		results = append(results, res)
		events = append(events, res.Events...)
	}
	return results, events
}
