package workouts

import (
	"encoding/json"
	"strconv"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	defaultStatsCacheSize   = 10 * 1024 * 1024
	defaultStatsCacheExpire = 60 * 10 // seconds
)

// StatsCache keeps user stats in memory until a new workout of that user is saved.
type StatsCache struct {
	cache         *freecache.Cache
	expireSeconds int
}

// NewStatsCache creates a cache of the given size in bytes. Sizes <= 0 fall back
// to a 10MB cache.
func NewStatsCache(size int, expireSeconds int) *StatsCache {
	if size <= 0 {
		size = defaultStatsCacheSize
	}
	if expireSeconds <= 0 {
		expireSeconds = defaultStatsCacheExpire
	}
	return &StatsCache{
		cache:         freecache.NewCache(size),
		expireSeconds: expireSeconds,
	}
}

func (c *StatsCache) Get(userID int) (*Stats, bool) {
	statsBytes, err := c.cache.Get(statsCacheKey(userID))
	if err != nil {
		return nil, false
	}

	stats := &Stats{}
	if err := json.Unmarshal(statsBytes, stats); err != nil {
		log.Errorf("failed to unmarshal cached stats for user %d: %s", userID, err)
		c.Invalidate(userID)
		return nil, false
	}
	return stats, true
}

func (c *StatsCache) Set(stats *Stats) {
	statsBytes, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("failed to marshal stats for user %d: %s", stats.UserID, err)
		return
	}
	if err := c.cache.Set(statsCacheKey(stats.UserID), statsBytes, c.expireSeconds); err != nil {
		log.Errorf("failed to write stats cache for user %d: %s", stats.UserID, err)
	}
}

func (c *StatsCache) Invalidate(userID int) {
	c.cache.Del(statsCacheKey(userID))
}

func statsCacheKey(userID int) []byte {
	return []byte("stats::" + strconv.Itoa(userID))
}
