package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/formfit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Repo interface {
	Add(ctx context.Context, workout *Workout) (*Workout, error)
	Get(ctx context.Context, id int) (*Workout, error)
	List(ctx context.Context, params ListParams) ([]Workout, error)
	Stats(ctx context.Context, userID int, since time.Time) (*Stats, error)
	Delete(ctx context.Context, id int) error
}

var (
	_ Repo = (*PsqlRepo)(nil)
	_ Repo = (*SqliteRepo)(nil)
)

type Service struct {
	repo  Repo
	cache *StatsCache
	now   func() time.Time
}

func NewService(repo Repo, cache *StatsCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *Service) Add(ctx context.Context, workout *Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	added, err := s.repo.Add(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}
	s.cache.Invalidate(added.UserID)

	log.Debugf("workout %d added for user %d: %s, %d reps", added.ID, added.UserID, added.ExerciseType, added.Reps)
	return added, nil
}

func (s *Service) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}
	return workout, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

// Stats returns the cached stats of a user, computing them on a cache miss.
func (s *Service) Stats(ctx context.Context, userID int) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if stats, ok := s.cache.Get(userID); ok {
		return stats, nil
	}

	stats, err := s.repo.Stats(ctx, userID, s.now().Add(-RecentWindow))
	if err != nil {
		return nil, fmt.Errorf("get stats for user %d: %w", userID, err)
	}
	s.cache.Set(stats)
	return stats, nil
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get workout %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout %d: %w", id, err)
	}
	s.cache.Invalidate(workout.UserID)
	return nil
}
