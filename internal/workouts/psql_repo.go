package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/formfit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) Add(ctx context.Context, workout *Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if workout.WorkoutDate.IsZero() {
		workout.WorkoutDate = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	added := *workout
	err = tx.QueryRow(ctx, `
		INSERT INTO workout (user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		workout.UserID,
		workout.ExerciseType,
		workout.Duration,
		workout.Reps,
		workout.Sets,
		workout.CaloriesBurned,
		workout.Notes,
		workout.WorkoutDate,
	).Scan(&added.ID)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (r *PsqlRepo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	workout := &Workout{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date
			FROM workout
			WHERE id = $1
		`, id).
		Scan(
			&workout.ID, &workout.UserID, &workout.ExerciseType,
			&workout.Duration, &workout.Reps, &workout.Sets,
			&workout.CaloriesBurned, &workout.Notes, &workout.WorkoutDate,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (r *PsqlRepo) List(ctx context.Context, params ListParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("user-id", params.UserID))
	span.SetAttributes(attribute.Int("limit", params.Limit))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date
		FROM workout
		WHERE user_id = $1
		ORDER BY workout_date DESC, id DESC
		LIMIT NULLIF($2::integer, 0)
	`,
		params.UserID,
		max(params.Limit, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]Workout, 0)
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.ExerciseType,
			&w.Duration, &w.Reps, &w.Sets,
			&w.CaloriesBurned, &w.Notes, &w.WorkoutDate,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

// Stats counts the workouts of a user. Workouts done at or after since
// are counted as recent.
func (r *PsqlRepo) Stats(ctx context.Context, userID int, since time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.stats")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	stats := &Stats{UserID: userID}
	err = r.db.
		QueryRow(ctx, `
			SELECT
				COUNT(*),
				COALESCE(SUM(calories_burned), 0),
				COUNT(*) FILTER (WHERE workout_date >= $2)
			FROM workout
			WHERE user_id = $1
		`, userID, since).
		Scan(&stats.TotalWorkouts, &stats.TotalCalories, &stats.RecentWorkouts)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *PsqlRepo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}
