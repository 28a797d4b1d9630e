package session

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Cadence describes the tempo of the reps done in a session.
type Cadence struct {
	Reps           int           `json:"reps"`
	MeanInterval   time.Duration `json:"meanInterval"`
	StdDevInterval time.Duration `json:"stdDevInterval"`
}

// Cadence calculates the mean time between consecutive reps, regardless of limb.
// At least two reps are needed to get any interval.
func (a *Aggregator) Cadence() Cadence {
	cadence := Cadence{
		Reps: len(a.repTimes),
	}
	if len(a.repTimes) < 2 {
		return cadence
	}

	intervals := make([]float64, 0, len(a.repTimes)-1)
	for i := 1; i < len(a.repTimes); i++ {
		intervals = append(intervals, a.repTimes[i].Sub(a.repTimes[i-1]).Seconds())
	}

	mean, std := stat.MeanStdDev(intervals, nil)
	cadence.MeanInterval = secondsToDuration(mean)
	if !math.IsNaN(std) {
		cadence.StdDevInterval = secondsToDuration(std)
	}
	return cadence
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
