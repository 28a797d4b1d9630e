package workouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2beens/formfit/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"
)

// SqliteRepo stores workouts in a local sqlite file, for single user setups
// where running postgres is not worth it. Dates are stored as unix seconds.
type SqliteRepo struct {
	db *sql.DB
}

func NewSqliteRepo(path string) (*SqliteRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS workout (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL,
			exercise_type   TEXT NOT NULL,
			duration        INTEGER NOT NULL DEFAULT 0,
			reps            INTEGER NOT NULL DEFAULT 0,
			sets            INTEGER NOT NULL DEFAULT 0,
			calories_burned REAL NOT NULL DEFAULT 0,
			notes           TEXT NOT NULL DEFAULT '',
			workout_date    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS workout_user_date_idx ON workout (user_id, workout_date);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create workout table: %w", err)
	}

	return &SqliteRepo{db: db}, nil
}

func (r *SqliteRepo) Close() error {
	return r.db.Close()
}

func (r *SqliteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SqliteRepo) Add(ctx context.Context, workout *Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	added := *workout
	if added.WorkoutDate.IsZero() {
		added.WorkoutDate = time.Now()
	}
	added.WorkoutDate = added.WorkoutDate.Truncate(time.Second)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO workout (user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		added.UserID,
		added.ExerciseType,
		added.Duration,
		added.Reps,
		added.Sets,
		added.CaloriesBurned,
		added.Notes,
		added.WorkoutDate.Unix(),
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get inserted id: %w", err)
	}
	added.ID = int(id)
	return &added, nil
}

func (r *SqliteRepo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date
		FROM workout
		WHERE id = ?
	`, id)
	workout, err := scanSqliteWorkout(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (r *SqliteRepo) List(ctx context.Context, params ListParams) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", params.UserID))
	span.SetAttributes(attribute.Int("limit", params.Limit))

	// negative limit means no limit in sqlite
	limit := params.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, exercise_type, duration, reps, sets, calories_burned, notes, workout_date
		FROM workout
		WHERE user_id = ?
		ORDER BY workout_date DESC, id DESC
		LIMIT ?
	`, params.UserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]Workout, 0)
	for rows.Next() {
		w, err := scanSqliteWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

func (r *SqliteRepo) Stats(ctx context.Context, userID int, since time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user-id", userID))

	stats := &Stats{UserID: userID}
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(calories_burned), 0),
			COALESCE(SUM(CASE WHEN workout_date >= ? THEN 1 ELSE 0 END), 0)
		FROM workout
		WHERE user_id = ?
	`, since.Unix(), userID).
		Scan(&stats.TotalWorkouts, &stats.TotalCalories, &stats.RecentWorkouts)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *SqliteRepo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.sqlite.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	res, err := r.db.ExecContext(ctx, `DELETE FROM workout WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqliteWorkout(row rowScanner) (*Workout, error) {
	var w Workout
	var workoutDate int64
	if err := row.Scan(
		&w.ID, &w.UserID, &w.ExerciseType,
		&w.Duration, &w.Reps, &w.Sets,
		&w.CaloriesBurned, &w.Notes, &workoutDate,
	); err != nil {
		return nil, err
	}
	w.WorkoutDate = time.Unix(workoutDate, 0)
	return &w, nil
}
