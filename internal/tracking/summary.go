package tracking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/workouts"
)

var ErrNothingToSave = errors.New("nothing recorded, workout not saved")

const DefaultCaloriesPerMinute = 5.0

// Recorded reports whether the session has anything worth saving:
// completed sets for hold based exercises, reps for all the others.
func (s Snapshot) Recorded() bool {
	if s.Exercise.HoldBased() {
		return s.Counters.SetCount > 0
	}
	return s.TotalReps > 0
}

// Summarize turns a finished session into a workout record.
// Duration is counted in whole minutes, but never less than one.
func Summarize(s Snapshot, caloriesPerMinute float64, finishedAt time.Time) (*workouts.Workout, error) {
	if !s.Recorded() {
		return nil, ErrNothingToSave
	}
	if caloriesPerMinute <= 0 {
		caloriesPerMinute = DefaultCaloriesPerMinute
	}

	minutes := max(1, int(s.Elapsed/time.Minute))
	workout := &workouts.Workout{
		UserID:         s.UserID,
		ExerciseType:   s.Exercise.DisplayName(),
		Duration:       minutes,
		Reps:           s.TotalReps,
		Sets:           1,
		CaloriesBurned: float64(minutes) * caloriesPerMinute,
		WorkoutDate:    finishedAt,
	}

	switch {
	case s.Exercise == exercise.KindBicepCurl:
		workout.Notes = fmt.Sprintf(
			"Right arm: %d reps, Left arm: %d reps",
			s.Counters.Reps(exercise.LimbRight),
			s.Counters.Reps(exercise.LimbLeft),
		)
	case s.Exercise.HoldBased():
		workout.Sets = s.Counters.SetCount
		workout.Notes = holdNotes(s.Counters.SetDurations, s.Counters.TotalHold)
	}

	return workout, nil
}

func holdNotes(sets []time.Duration, total time.Duration) string {
	holds := make([]string, 0, len(sets))
	for _, d := range sets {
		holds = append(holds, d.Round(time.Second).String())
	}
	return fmt.Sprintf("Hold times: %s (total %s)", strings.Join(holds, ", "), total.Round(time.Second))
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
