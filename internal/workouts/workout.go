package workouts

import (
	"errors"
	"time"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// RecentWindow is the period counted as "recent" in user stats.
const RecentWindow = 7 * 24 * time.Hour

// Workout is a finished, saved tracking session.
type Workout struct {
	ID           int    `json:"id"`
	UserID       int    `json:"userId"`
	ExerciseType string `json:"exerciseType"`
	// Duration is in whole minutes
	Duration       int       `json:"duration"`
	Reps           int       `json:"reps"`
	Sets           int       `json:"sets"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	Notes          string    `json:"notes"`
	WorkoutDate    time.Time `json:"workoutDate"`
}

type Stats struct {
	UserID         int     `json:"userId"`
	TotalWorkouts  int     `json:"totalWorkouts"`
	TotalCalories  float64 `json:"totalCalories"`
	RecentWorkouts int     `json:"recentWorkouts"`
}

type ListParams struct {
	UserID int
	// Limit <= 0 means no limit
	Limit int
}
