package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/pose"
	"github.com/2beens/formfit/internal/tracking"
	"github.com/2beens/formfit/internal/workouts"
)

const maxLineBytes = 1 << 20

type replayParams struct {
	Exercise          exercise.Kind
	Side              exercise.Limb
	UserID            int
	CaloriesPerMinute float64
	// OnFrame, when set, is called with the result of each frame
	OnFrame func(line int, result tracking.FrameResult)
}

type replayResult struct {
	Snapshot tracking.Snapshot
	// Workout is nil when nothing was recorded
	Workout *workouts.Workout
}

// replayClock follows the frame timestamps, so the session duration
// is the recorded one and not the replay one.
type replayClock struct {
	now time.Time
}

func (c *replayClock) Now() time.Time {
	return c.now
}

// replay feeds JSON lines frames through a tracker, one frame per line.
func replay(r io.Reader, params replayParams) (*replayResult, error) {
	if params.Side == "" {
		params.Side = exercise.LimbLeft
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	clock := &replayClock{}
	var tracker *tracking.Tracker
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var frame pose.Frame
		if err := json.Unmarshal([]byte(text), &frame); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !frame.Timestamp.IsZero() {
			clock.now = frame.Timestamp
		} else if clock.now.IsZero() {
			clock.now = time.Now()
		}

		if tracker == nil {
			var err error
			tracker, err = tracking.NewTracker(tracking.NewTrackerParams{
				ID:       "replay",
				UserID:   params.UserID,
				Exercise: params.Exercise,
				Side:     params.Side,
				Now:      clock.Now,
			})
			if err != nil {
				return nil, err
			}
		}

		result := tracker.ProcessFrame(frame)
		if params.OnFrame != nil {
			params.OnFrame(line, result)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}
	if tracker == nil {
		return nil, errors.New("no frames to replay")
	}

	snapshot := tracker.Snapshot()
	workout, err := tracking.Summarize(snapshot, params.CaloriesPerMinute, clock.now)
	if err != nil && !errors.Is(err, tracking.ErrNothingToSave) {
		return nil, err
	}

	return &replayResult{
		Snapshot: snapshot,
		Workout:  workout,
	}, nil
}
