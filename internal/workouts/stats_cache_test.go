package workouts_test

import (
	"testing"

	"github.com/2beens/formfit/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCache(t *testing.T) {
	cache := workouts.NewStatsCache(0, 0)

	_, ok := cache.Get(1)
	assert.False(t, ok)

	stats := &workouts.Stats{
		UserID:         1,
		TotalWorkouts:  3,
		TotalCalories:  45.5,
		RecentWorkouts: 1,
	}
	cache.Set(stats)

	cached, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, stats, cached)

	_, ok = cache.Get(2)
	assert.False(t, ok)

	cache.Invalidate(1)
	_, ok = cache.Get(1)
	assert.False(t, ok)

	// invalidating a missing entry is fine
	cache.Invalidate(1)
}
