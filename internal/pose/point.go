package pose

import "time"

// Point2D is a landmark position in normalized image coordinates, [0,1] on both axes.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Joint names follow the MediaPipe pose landmark naming.
type Joint string

const (
	LeftShoulder  Joint = "LEFT_SHOULDER"
	RightShoulder Joint = "RIGHT_SHOULDER"
	LeftElbow     Joint = "LEFT_ELBOW"
	RightElbow    Joint = "RIGHT_ELBOW"
	LeftWrist     Joint = "LEFT_WRIST"
	RightWrist    Joint = "RIGHT_WRIST"
	LeftHip       Joint = "LEFT_HIP"
	RightHip      Joint = "RIGHT_HIP"
	LeftKnee      Joint = "LEFT_KNEE"
	RightKnee     Joint = "RIGHT_KNEE"
	LeftAnkle     Joint = "LEFT_ANKLE"
	RightAnkle    Joint = "RIGHT_ANKLE"
)

func (j Joint) String() string {
	return string(j)
}

// JointTriple identifies the angle measured at Vertex,
// between the Vertex->Proximal and Vertex->Distal segments.
type JointTriple struct {
	Proximal Joint
	Vertex   Joint
	Distal   Joint
}

var (
	LeftElbowTriple  = JointTriple{LeftShoulder, LeftElbow, LeftWrist}
	RightElbowTriple = JointTriple{RightShoulder, RightElbow, RightWrist}
	LeftKneeTriple   = JointTriple{LeftHip, LeftKnee, LeftAnkle}
	RightKneeTriple  = JointTriple{RightHip, RightKnee, RightAnkle}
)

// Frame is the output of the external pose estimator for a single video frame.
// A frame with no landmarks means nothing was detected.
type Frame struct {
	Timestamp time.Time         `json:"timestamp"`
	Landmarks map[Joint]Point2D `json:"landmarks"`
}

func NewFrame(ts time.Time, landmarks map[Joint]Point2D) Frame {
	return Frame{
		Timestamp: ts,
		Landmarks: landmarks,
	}
}

// NoDetection returns a frame carrying the explicit "nothing detected" signal.
func NoDetection(ts time.Time) Frame {
	return Frame{Timestamp: ts}
}

func (f Frame) Detected() bool {
	return len(f.Landmarks) > 0
}

// Angle returns the angle for the given triple, and false if any of
// the three joints is missing from the frame.
func (f Frame) Angle(t JointTriple) (float64, bool) {
	a, ok := f.Landmarks[t.Proximal]
	if !ok {
		return 0, false
	}
	b, ok := f.Landmarks[t.Vertex]
	if !ok {
		return 0, false
	}
	c, ok := f.Landmarks[t.Distal]
	if !ok {
		return 0, false
	}
	return Angle(a, b, c), true
}
