package pose

import "math"

// Angle calculates the angle at b, formed by the points a, b and c, in degrees.
// Results above 180 are folded back as 360 - angle, which keeps them in [0, 180].
// Collinear or coincident points are not special cased and give 0 or 180.
func Angle(a, b, c Point2D) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)
	if angle > 180 {
		return 360 - angle
	}
	return angle
}
