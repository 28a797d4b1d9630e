package tracking_test

import (
	"math"
	"time"

	"github.com/2beens/formfit/internal/pose"
)

var testStart = time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

// fakeClock is advanced by hand from the tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testStart}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

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

func deadliftFrame(ts time.Time, knee, elbow float64) pose.Frame {
	return frameWithAngles(ts, map[pose.JointTriple]float64{
		pose.LeftKneeTriple:  knee,
		pose.LeftElbowTriple: elbow,
	})
}
