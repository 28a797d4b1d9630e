package pose_test

import (
	"math"

	"github.com/2beens/formfit/internal/pose"
)

func pointOnCircle(deg float64) pose.Point2D {
	rad := deg * math.Pi / 180
	return pose.Point2D{X: math.Cos(rad), Y: math.Sin(rad)}
}
