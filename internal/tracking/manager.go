package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/pose"
	"github.com/2beens/formfit/internal/telemetry/metrics"
	"github.com/2beens/formfit/internal/telemetry/tracing"
	"github.com/2beens/formfit/internal/workouts"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracking_test

type workoutsSaver interface {
	Add(ctx context.Context, workout *workouts.Workout) (*workouts.Workout, error)
}

type snapshotStore interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Delete(ctx context.Context, id string) error
}

var ErrSessionNotFound = errors.New("session not found")

const DefaultIdleTimeout = 30 * time.Minute

const (
	outcomeStarted  = "started"
	outcomeFinished = "finished"
	outcomeStopped  = "stopped"
	outcomeExpired  = "expired"
)

type StartParams struct {
	Exercise string `json:"exercise"`
	UserID   int    `json:"userId"`
}

type ManagerParams struct {
	Workouts workoutsSaver
	// Snapshots is optional, when set every change of the counters is mirrored there
	Snapshots         snapshotStore
	Metrics           *metrics.Manager
	Side              exercise.Limb
	CaloriesPerMinute float64
	IdleTimeout       time.Duration
	Now               func() time.Time
	NewID             func() string
}

// Manager owns all open tracking sessions.
type Manager struct {
	mu       sync.RWMutex
	trackers map[string]*Tracker

	workouts          workoutsSaver
	snapshots         snapshotStore
	metrics           *metrics.Manager
	side              exercise.Limb
	caloriesPerMinute float64
	idleTimeout       time.Duration
	now               func() time.Time
	newID             func() string
}

func NewManager(params ManagerParams) *Manager {
	m := &Manager{
		trackers:          make(map[string]*Tracker),
		workouts:          params.Workouts,
		snapshots:         params.Snapshots,
		metrics:           params.Metrics,
		side:              params.Side,
		caloriesPerMinute: params.CaloriesPerMinute,
		idleTimeout:       params.IdleTimeout,
		now:               params.Now,
		newID:             params.NewID,
	}
	if !m.side.IsValid() {
		m.side = exercise.LimbLeft
	}
	if m.caloriesPerMinute <= 0 {
		m.caloriesPerMinute = DefaultCaloriesPerMinute
	}
	if m.idleTimeout <= 0 {
		m.idleTimeout = DefaultIdleTimeout
	}
	if m.metrics == nil {
		m.metrics = metrics.NewTestManager()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

func (m *Manager) Start(ctx context.Context, params StartParams) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracking.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.Exercise))
	span.SetAttributes(attribute.Int("user-id", params.UserID))

	kind, err := exercise.ParseKind(params.Exercise)
	if err != nil {
		return Snapshot{}, err
	}

	tracker, err := NewTracker(NewTrackerParams{
		ID:       m.newID(),
		UserID:   params.UserID,
		Exercise: kind,
		Side:     m.side,
		Now:      m.now,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("new tracker: %w", err)
	}

	m.mu.Lock()
	m.trackers[tracker.ID()] = tracker
	active := len(m.trackers)
	m.mu.Unlock()

	m.metrics.CounterSessions.WithLabelValues(kind.String(), outcomeStarted).Inc()
	m.metrics.GaugeActiveSessions.Set(float64(active))
	log.Debugf("tracking session %s started: %s, user %d", tracker.ID(), kind, params.UserID)

	snapshot := tracker.Snapshot()
	m.saveSnapshot(ctx, snapshot)
	return snapshot, nil
}

func (m *Manager) Get(id string) (*Tracker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tracker, ok := m.trackers[id]
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
	}
	return tracker, nil
}

func (m *Manager) Snapshot(id string) (Snapshot, error) {
	tracker, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return tracker.Snapshot(), nil
}

// List returns the snapshots of all open sessions, oldest first.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	trackers := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		trackers = append(trackers, t)
	}
	m.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(trackers))
	for _, t := range trackers {
		snapshots = append(snapshots, t.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Counters.StartedAt.Equal(snapshots[j].Counters.StartedAt) {
			return snapshots[i].ID < snapshots[j].ID
		}
		return snapshots[i].Counters.StartedAt.Before(snapshots[j].Counters.StartedAt)
	})
	return snapshots
}

func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trackers)
}

func (m *Manager) ProcessFrame(ctx context.Context, id string, frame pose.Frame) (_ *FrameResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracking.frame")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tracker, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	result, ok := tracker.processIfOpen(frame)
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
	}
	kind := tracker.Exercise().String()

	m.metrics.CounterFrames.WithLabelValues(kind, strconv.FormatBool(result.PoseDetected)).Inc()
	for _, event := range result.Events {
		switch event.Type {
		case exercise.EventTypeRep:
			m.metrics.CounterReps.WithLabelValues(kind, event.Limb.String()).Inc()
			log.Tracef("session %s: %s rep, total %d", id, event.Limb, result.Snapshot.TotalReps)
		case exercise.EventTypeSet:
			m.metrics.CounterSets.WithLabelValues(kind).Inc()
			m.metrics.HistSetDuration.WithLabelValues(kind).Observe(event.Duration.Seconds())
			log.Tracef("session %s: set of %s, total sets %d", id, event.Duration, result.Snapshot.Counters.SetCount)
		}
	}

	if result.Completed() {
		span.SetAttributes(attribute.Int("events", len(result.Events)))
		m.saveSnapshot(ctx, result.Snapshot)
	}

	return &result, nil
}

func (m *Manager) Reset(ctx context.Context, id string) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracking.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tracker, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, ok := tracker.resetIfOpen()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
	}
	m.saveSnapshot(ctx, snapshot)
	log.Debugf("tracking session %s reset", id)
	return snapshot, nil
}

// Finish saves the session as a workout and closes it. When nothing was
// recorded, ErrNothingToSave is returned and the session stays open.
// Frames that arrive while the workout is being saved wait for the outcome:
// they are processed when the session stays open, and rejected otherwise.
func (m *Manager) Finish(ctx context.Context, id string) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracking.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tracker, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	var saved *workouts.Workout
	snapshot, open, err := tracker.finish(func(snapshot Snapshot) error {
		workout, err := Summarize(snapshot, m.caloriesPerMinute, m.now())
		if err != nil {
			return err
		}
		saved, err = m.workouts.Add(ctx, workout)
		if err != nil {
			return fmt.Errorf("save workout: %w", err)
		}
		return nil
	})
	if !open {
		return nil, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	m.remove(tracker)
	m.closed(ctx, id, snapshot.Exercise, outcomeFinished)
	m.metrics.CounterWorkoutsSaved.WithLabelValues(snapshot.Exercise.String()).Inc()
	log.Infof("tracking session %s finished, saved workout %d: %d reps, %d sets", id, saved.ID, saved.Reps, saved.Sets)
	return saved, nil
}

// Stop closes the session without saving anything.
func (m *Manager) Stop(ctx context.Context, id string) (_ Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracking.stop")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tracker, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot, ok := tracker.close()
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
	}
	m.remove(tracker)
	m.closed(ctx, id, snapshot.Exercise, outcomeStopped)
	log.Debugf("tracking session %s stopped without saving", id)
	return snapshot, nil
}

// CleanupIdle closes, without saving, all sessions that did not get
// a frame or a command for longer than the idle timeout.
func (m *Manager) CleanupIdle(ctx context.Context) []string {
	m.mu.RLock()
	trackers := make([]*Tracker, 0, len(m.trackers))
	for _, t := range m.trackers {
		trackers = append(trackers, t)
	}
	m.mu.RUnlock()

	var removed []string
	for _, tracker := range trackers {
		if tracker.IdleFor() <= m.idleTimeout {
			continue
		}
		if _, ok := tracker.close(); !ok {
			// closed in the meantime
			continue
		}
		m.remove(tracker)
		m.closed(ctx, tracker.ID(), tracker.Exercise(), outcomeExpired)
		removed = append(removed, tracker.ID())
	}
	if len(removed) > 0 {
		log.Warnf("cleaned up %d idle tracking sessions", len(removed))
	}
	sort.Strings(removed)
	return removed
}

// RunCleanup calls CleanupIdle every interval, until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdle(ctx)
		}
	}
}

func (m *Manager) remove(tracker *Tracker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trackers[tracker.ID()] == tracker {
		delete(m.trackers, tracker.ID())
	}
}

func (m *Manager) closed(ctx context.Context, id string, kind exercise.Kind, outcome string) {
	m.metrics.CounterSessions.WithLabelValues(kind.String(), outcome).Inc()
	m.metrics.GaugeActiveSessions.Set(float64(m.Active()))

	if m.snapshots == nil {
		return
	}
	if err := m.snapshots.Delete(ctx, id); err != nil {
		log.Errorf("delete snapshot of session %s: %s", id, err)
	}
}

func (m *Manager) saveSnapshot(ctx context.Context, snapshot Snapshot) {
	if m.snapshots == nil {
		return
	}
	if err := m.snapshots.Save(ctx, snapshot); err != nil {
		log.Errorf("save snapshot of session %s: %s", snapshot.ID, err)
	}
}
