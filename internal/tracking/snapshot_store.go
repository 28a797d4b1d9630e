package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultSnapshotTTL = 2 * time.Hour
	snapshotKeyPrefix  = "formfit-session||"
	activeSessionsKey  = "formfit-sessions"
)

// SnapshotStore mirrors the live session counters into redis, so dashboards
// and other instances can read them without touching the frame pipeline.
type SnapshotStore struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSnapshotStore(redisClient *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot Snapshot) error {
	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	cmdSet := s.redisClient.Set(ctx, snapshotKeyPrefix+snapshot.ID, snapshotJson, s.ttl)
	if err := cmdSet.Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}

	cmdSAdd := s.redisClient.SAdd(ctx, activeSessionsKey, snapshot.ID)
	if err := cmdSAdd.Err(); err != nil {
		return fmt.Errorf("add to active sessions: %w", err)
	}

	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	cmd := s.redisClient.Get(ctx, snapshotKeyPrefix+id)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: [%s]", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	snapshot := &Snapshot{}
	if err := json.Unmarshal([]byte(cmd.Val()), snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	cmdDel := s.redisClient.Del(ctx, snapshotKeyPrefix+id)
	if err := cmdDel.Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	cmdSRem := s.redisClient.SRem(ctx, activeSessionsKey, id)
	if err := cmdSRem.Err(); err != nil {
		return fmt.Errorf("remove from active sessions: %w", err)
	}

	return nil
}

// ActiveIDs returns the ids of all sessions with a stored snapshot.
// Ids of snapshots that expired are pruned from the set.
func (s *SnapshotStore) ActiveIDs(ctx context.Context) ([]string, error) {
	cmd := s.redisClient.SMembers(ctx, activeSessionsKey)
	if err := cmd.Err(); err != nil {
		return nil, fmt.Errorf("get active sessions: %w", err)
	}

	active := make([]string, 0, len(cmd.Val()))
	for _, id := range cmd.Val() {
		cmdExists := s.redisClient.Exists(ctx, snapshotKeyPrefix+id)
		if err := cmdExists.Err(); err != nil {
			return nil, fmt.Errorf("check snapshot %s: %w", id, err)
		}
		if cmdExists.Val() > 0 {
			active = append(active, id)
			continue
		}
		if err := s.redisClient.SRem(ctx, activeSessionsKey, id).Err(); err != nil {
			return nil, fmt.Errorf("prune expired session %s: %w", id, err)
		}
	}
	return active, nil
}
