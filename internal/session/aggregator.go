package session

import (
	"time"

	"github.com/2beens/formfit/internal/exercise"
)

// Counters are the per session totals. They only grow while the session
// is running; Reset is the only way to bring them back to zero.
type Counters struct {
	RepsByLimb   map[exercise.Limb]int `json:"repsByLimb"`
	SetDurations []time.Duration       `json:"setDurations"`
	TotalHold    time.Duration         `json:"totalHold"`
	SetCount     int                   `json:"setCount"`
	StartedAt    time.Time             `json:"startedAt"`
}

func (c Counters) TotalReps() int {
	total := 0
	for _, reps := range c.RepsByLimb {
		total += reps
	}
	return total
}

func (c Counters) Reps(limb exercise.Limb) int {
	return c.RepsByLimb[limb]
}

// Aggregator receives completion events from a machine and keeps the session counters.
// It is not safe for concurrent use, the owning tracker serializes access.
type Aggregator struct {
	now      func() time.Time
	counters Counters
	repTimes []time.Time
}

// NewAggregator starts a session at now(). A nil now defaults to time.Now.
func NewAggregator(now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	a := &Aggregator{
		now: now,
	}
	a.Reset()
	return a
}

func (a *Aggregator) OnRepCompleted(limb exercise.Limb) {
	a.onRep(limb, a.now())
}

func (a *Aggregator) onRep(limb exercise.Limb, at time.Time) {
	a.counters.RepsByLimb[limb]++
	a.repTimes = append(a.repTimes, at)
}

func (a *Aggregator) OnSetCompleted(duration time.Duration) {
	a.counters.SetDurations = append(a.counters.SetDurations, duration)
	a.counters.TotalHold += duration
	a.counters.SetCount = len(a.counters.SetDurations)
}

// Apply routes a machine event to the matching counter update.
func (a *Aggregator) Apply(event exercise.Event) {
	switch event.Type {
	case exercise.EventTypeRep:
		at := event.Timestamp
		if at.IsZero() {
			at = a.now()
		}
		a.onRep(event.Limb, at)
	case exercise.EventTypeSet:
		a.OnSetCompleted(event.Duration)
	}
}

// Reset zeroes all counters and restarts the session clock.
func (a *Aggregator) Reset() {
	a.counters = Counters{
		RepsByLimb:   make(map[exercise.Limb]int),
		SetDurations: []time.Duration{},
		StartedAt:    a.now(),
	}
	a.repTimes = nil
}

func (a *Aggregator) Elapsed() time.Duration {
	return a.now().Sub(a.counters.StartedAt)
}

// DisplayHold is the hold time shown to the user: completed sets plus
// the currently running hold, if any. The running hold is measured up to
// at, which must come from the same clock as holdingSince.
func (a *Aggregator) DisplayHold(at, holdingSince time.Time, holding bool) time.Duration {
	if !holding {
		return a.counters.TotalHold
	}
	running := at.Sub(holdingSince)
	if running < 0 {
		running = 0
	}
	return a.counters.TotalHold + running
}

// Snapshot returns a copy of the counters, safe to hand out.
func (a *Aggregator) Snapshot() Counters {
	c := a.counters
	c.RepsByLimb = make(map[exercise.Limb]int, len(a.counters.RepsByLimb))
	for limb, reps := range a.counters.RepsByLimb {
		c.RepsByLimb[limb] = reps
	}
	c.SetDurations = make([]time.Duration, len(a.counters.SetDurations))
	copy(c.SetDurations, a.counters.SetDurations)
	return c
}
