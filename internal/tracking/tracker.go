package tracking

import (
	"sync"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/pose"
	"github.com/2beens/formfit/internal/session"
)

// Snapshot is the state of a tracking session as shown to the user.
type Snapshot struct {
	ID           string            `json:"id"`
	UserID       int               `json:"userId"`
	Exercise     exercise.Kind     `json:"exercise"`
	Counters     session.Counters  `json:"counters"`
	TotalReps    int               `json:"totalReps"`
	Elapsed      time.Duration     `json:"elapsed"`
	DisplayHold  time.Duration     `json:"displayHold"`
	Holding      bool              `json:"holding"`
	Cadence      session.Cadence   `json:"cadence"`
	Frames       int               `json:"frames"`
	NoPoseFrames int               `json:"noPoseFrames"`
	LastFeedback exercise.Feedback `json:"lastFeedback"`
	LastSeen     time.Time         `json:"lastSeen"`
}

// ElapsedClock formats the session duration as m:ss.
func (s Snapshot) ElapsedClock() string {
	return formatClock(s.Elapsed)
}

type FrameResult struct {
	exercise.Result
	Snapshot Snapshot `json:"snapshot"`
}

// Tracker is the frame pipeline of a single session: each frame goes
// through the exercise machine, and its completion events into the aggregator.
// All methods are serialized, so frames may come from any goroutine,
// but they are processed strictly one after another.
type Tracker struct {
	mu sync.Mutex

	id         string
	userID     int
	kind       exercise.Kind
	machine    exercise.Machine
	aggregator *session.Aggregator
	now        func() time.Time

	frames       int
	noPoseFrames int
	lastFeedback exercise.Feedback
	lastSeen     time.Time

	// lastFrameAt is the timestamp of the last frame, on the client clock,
	// and lastFrameSeen is when that frame arrived, on the tracker clock.
	lastFrameAt   time.Time
	lastFrameSeen time.Time
	closed        bool
}

type NewTrackerParams struct {
	ID       string
	UserID   int
	Exercise exercise.Kind
	Side     exercise.Limb
	Now      func() time.Time
}

func NewTracker(params NewTrackerParams) (*Tracker, error) {
	machine, err := exercise.New(params.Exercise, params.Side)
	if err != nil {
		return nil, err
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Tracker{
		id:         params.ID,
		userID:     params.UserID,
		kind:       params.Exercise,
		machine:    machine,
		aggregator: session.NewAggregator(now),
		now:        now,
		lastSeen:   now(),
	}, nil
}

func (t *Tracker) ID() string {
	return t.id
}

func (t *Tracker) Exercise() exercise.Kind {
	return t.kind
}

// ProcessFrame runs a single frame through the machine. Frames without
// a timestamp are stamped with the tracker clock.
func (t *Tracker) ProcessFrame(frame pose.Frame) FrameResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processFrame(frame)
}

// processIfOpen is ProcessFrame for a tracker shared by the manager, where
// the session may get closed by a concurrent finish or stop.
func (t *Tracker) processIfOpen(frame pose.Frame) (FrameResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return FrameResult{}, false
	}
	return t.processFrame(frame), true
}

func (t *Tracker) processFrame(frame pose.Frame) FrameResult {
	if frame.Timestamp.IsZero() {
		frame.Timestamp = t.now()
	}

	result := t.machine.Step(frame)
	for _, event := range result.Events {
		t.aggregator.Apply(event)
	}

	t.frames++
	if !result.PoseDetected {
		t.noPoseFrames++
	}
	t.lastFeedback = result.Feedback
	t.lastSeen = t.now()
	t.lastFrameAt = frame.Timestamp
	t.lastFrameSeen = t.lastSeen

	return FrameResult{
		Result:   result,
		Snapshot: t.snapshot(),
	}
}

// Reset zeroes the session counters. The machine keeps its limb state,
// so a rep in progress is not lost.
func (t *Tracker) Reset() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reset()
}

func (t *Tracker) resetIfOpen() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Snapshot{}, false
	}
	return t.reset(), true
}

func (t *Tracker) reset() Snapshot {
	t.aggregator.Reset()
	t.lastSeen = t.now()
	return t.snapshot()
}

// finish hands the final snapshot to save while holding the tracker, so
// frames that arrive meanwhile wait for the outcome instead of being lost.
// The tracker is closed only when save succeeds.
func (t *Tracker) finish(save func(snapshot Snapshot) error) (Snapshot, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Snapshot{}, false, nil
	}

	snapshot := t.snapshot()
	if err := save(snapshot); err != nil {
		return snapshot, true, err
	}
	t.closed = true
	return snapshot, true, nil
}

// close closes the tracker without saving. It reports false when the
// tracker was already closed.
func (t *Tracker) close() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Snapshot{}, false
	}
	t.closed = true
	return t.snapshot(), true
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// IdleFor returns for how long no frame or command reached this tracker.
func (t *Tracker) IdleFor() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.lastSeen)
}

func (t *Tracker) snapshot() Snapshot {
	var holdingSince time.Time
	var holding bool
	if holder, ok := t.machine.(exercise.Holder); ok {
		holdingSince, holding = holder.HoldingSince()
	}

	// the running hold starts on the client clock, so it is measured up to the
	// last frame, plus the time that passed on the tracker clock since then
	holdingUntil := t.lastFrameAt.Add(t.now().Sub(t.lastFrameSeen))

	counters := t.aggregator.Snapshot()
	return Snapshot{
		ID:           t.id,
		UserID:       t.userID,
		Exercise:     t.kind,
		Counters:     counters,
		TotalReps:    counters.TotalReps(),
		Elapsed:      t.aggregator.Elapsed(),
		DisplayHold:  t.aggregator.DisplayHold(holdingUntil, holdingSince, holding),
		Holding:      holding,
		Cadence:      t.aggregator.Cadence(),
		Frames:       t.frames,
		NoPoseFrames: t.noPoseFrames,
		LastFeedback: t.lastFeedback,
		LastSeen:     t.lastSeen,
	}
}
