package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/middleware"
	"github.com/2beens/formfit/internal/pose"
	"github.com/2beens/formfit/internal/telemetry/metrics"
	"github.com/2beens/formfit/internal/telemetry/tracing"
	"github.com/2beens/formfit/internal/workouts"
	"github.com/2beens/formfit/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	maxFrameBodyBytes = 1 << 20
	maxStartBodyBytes = 4 << 10
)

type sessionsManager interface {
	Start(ctx context.Context, params StartParams) (Snapshot, error)
	Snapshot(id string) (Snapshot, error)
	List() []Snapshot
	ProcessFrame(ctx context.Context, id string, frame pose.Frame) (*FrameResult, error)
	Reset(ctx context.Context, id string) (Snapshot, error)
	Finish(ctx context.Context, id string) (*workouts.Workout, error)
	Stop(ctx context.Context, id string) (Snapshot, error)
}

type snapshotReader interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	ActiveIDs(ctx context.Context) ([]string, error)
}

type StartResponse struct {
	ID          string        `json:"id"`
	Exercise    exercise.Kind `json:"exercise"`
	DisplayName string        `json:"displayName"`
	StartedAt   time.Time     `json:"startedAt"`
}

type SnapshotResponse struct {
	Snapshot
	Duration string `json:"duration"`
}

type SessionsListResponse struct {
	Sessions []SnapshotResponse `json:"sessions"`
	Total    int                `json:"total"`
}

type ExerciseInfo struct {
	Kind        exercise.Kind `json:"kind"`
	DisplayName string        `json:"displayName"`
	HoldBased   bool          `json:"holdBased"`
}

type Handler struct {
	manager sessionsManager
	// snapshots is optional, used to find sessions held by other instances
	snapshots snapshotReader
}

func NewHandler(manager sessionsManager, snapshots snapshotReader) *Handler {
	return &Handler{
		manager:   manager,
		snapshots: snapshots,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	startAllowedPerMin int,
) {
	startHandler := http.Handler(http.HandlerFunc(handler.HandleStart))
	if rateLimiter != nil {
		startHandler = middleware.RateLimit(rateLimiter, "session-start", startAllowedPerMin, metricsManager)(startHandler)
	}

	mainRouter.Handle("/sessions", startHandler).Methods("POST", "OPTIONS").Name("start-session")
	mainRouter.HandleFunc("/sessions", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	mainRouter.HandleFunc("/sessions/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	mainRouter.HandleFunc("/sessions/{id}", handler.HandleStop).Methods("DELETE", "OPTIONS").Name("stop-session")
	mainRouter.HandleFunc("/sessions/{id}/frames", handler.HandleFrame).Methods("POST", "OPTIONS").Name("session-frame")
	mainRouter.HandleFunc("/sessions/{id}/reset", handler.HandleReset).Methods("POST", "OPTIONS").Name("reset-session")
	mainRouter.HandleFunc("/sessions/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")
	mainRouter.HandleFunc("/exercises", handler.HandleExercises).Methods("GET", "OPTIONS").Name("list-exercises")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.start")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params StartParams
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStartBodyBytes)).Decode(&params); err != nil {
		log.Errorf("start session, unmarshal json params: %s", err)
		http.Error(w, "start session failed", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.manager.Start(ctx, params)
	if err != nil {
		writeError(w, "start session", err)
		return
	}

	writeJSON(w, StartResponse{
		ID:          snapshot.ID,
		Exercise:    snapshot.Exercise,
		DisplayName: snapshot.Exercise.DisplayName(),
		StartedAt:   snapshot.Counters.StartedAt,
	}, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	snapshot, err := handler.manager.Snapshot(id)
	if errors.Is(err, ErrSessionNotFound) && handler.snapshots != nil {
		var stored *Snapshot
		if stored, err = handler.snapshots.Load(ctx, id); err == nil {
			snapshot = *stored
		}
	}
	if err != nil {
		writeError(w, "get session", err)
		return
	}

	writeJSON(w, newSnapshotResponse(snapshot), http.StatusOK)
}

// HandleList lists the local sessions, and when a snapshot store is set,
// the sessions of other instances found there.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.list")
	defer span.End()

	local := handler.manager.List()
	sessions := make([]SnapshotResponse, 0, len(local))
	seen := make(map[string]bool, len(local))
	for _, s := range local {
		sessions = append(sessions, newSnapshotResponse(s))
		seen[s.ID] = true
	}

	if handler.snapshots != nil {
		ids, err := handler.snapshots.ActiveIDs(ctx)
		if err != nil {
			log.Errorf("list sessions, get active ids: %s", err)
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			stored, err := handler.snapshots.Load(ctx, id)
			if err != nil {
				log.Warnf("list sessions, load snapshot %s: %s", id, err)
				continue
			}
			sessions = append(sessions, newSnapshotResponse(*stored))
		}
	}

	writeJSON(w, SessionsListResponse{
		Sessions: sessions,
		Total:    len(sessions),
	}, http.StatusOK)
}

func (handler *Handler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.frame")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var frame pose.Frame
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFrameBodyBytes)).Decode(&frame); err != nil {
		log.Errorf("process frame, unmarshal json frame: %s", err)
		http.Error(w, "invalid frame", http.StatusBadRequest)
		return
	}

	result, err := handler.manager.ProcessFrame(ctx, mux.Vars(r)["id"], frame)
	if err != nil {
		writeError(w, "process frame", err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

func (handler *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.reset")
	defer span.End()

	snapshot, err := handler.manager.Reset(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "reset session", err)
		return
	}

	writeJSON(w, newSnapshotResponse(snapshot), http.StatusOK)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.finish")
	defer span.End()

	// the workout is saved even if the client goes away meanwhile
	workout, err := handler.manager.Finish(tracing.ContextWithoutSpanCancel(ctx), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "finish session", err)
		return
	}

	writeJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.stop")
	defer span.End()

	snapshot, err := handler.manager.Stop(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "stop session", err)
		return
	}

	writeJSON(w, newSnapshotResponse(snapshot), http.StatusOK)
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, _ *http.Request) {
	kinds := exercise.Kinds()
	exercises := make([]ExerciseInfo, 0, len(kinds))
	for _, k := range kinds {
		exercises = append(exercises, ExerciseInfo{
			Kind:        k,
			DisplayName: k.DisplayName(),
			HoldBased:   k.HoldBased(),
		})
	}
	writeJSON(w, exercises, http.StatusOK)
}

func newSnapshotResponse(s Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Snapshot: s,
		Duration: s.ElapsedClock(),
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, exercise.ErrUnknownExercise):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNothingToSave):
		http.Error(w, "no repetitions recorded, workout not saved", http.StatusUnprocessableEntity)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any, statusCode int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}
