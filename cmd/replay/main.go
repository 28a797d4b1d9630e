package main

//// Small CLI tool used to run recorded pose frames through the rep counters,
//// and optionally store the resulting workout in a local sqlite db.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/formfit/internal/exercise"
	"github.com/2beens/formfit/internal/tracking"
	"github.com/2beens/formfit/internal/workouts"
	"github.com/2beens/formfit/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	framesPath := flag.String("frames", "", "path to a JSON lines file, one pose frame per line")
	exerciseName := flag.String("exercise", "squat", "exercise [curl | squat | press | deadlift | wallsit]")
	side := flag.String("side", "left", "tracked side for single side exercises [left | right]")
	userID := flag.Int("user", 0, "user id the workout is stored for")
	sqlitePath := flag.String("sqlite", "", "sqlite db path, the workout is stored there when set")
	verbose := flag.Bool("v", false, "print every frame")
	flag.Parse()

	log.SetOutput(os.Stdout)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *framesPath == "" {
		fmt.Println("Error: frames path not specified")
		flag.Usage()
		os.Exit(1)
	}

	kind, err := exercise.ParseKind(*exerciseName)
	if err != nil {
		log.Fatalf("parse exercise: %s", err)
	}

	trackedSide := exercise.Limb(strings.ToLower(*side))
	if !trackedSide.IsValid() {
		log.Fatalf("invalid side: %s", *side)
	}

	framesExist, err := pkg.PathExists(*framesPath, false)
	if err != nil {
		log.Fatalf("check frames file: %s", err)
	}
	if !framesExist {
		log.Fatalf("frames file not found: %s", *framesPath)
	}

	framesFile, err := os.Open(*framesPath)
	if err != nil {
		log.Fatalf("open frames file: %s", err)
	}
	defer func() {
		if err := framesFile.Close(); err != nil {
			log.Warnf("close frames file: %s", err)
		}
	}()

	result, err := replay(framesFile, replayParams{
		Exercise: kind,
		Side:     trackedSide,
		UserID:   *userID,
		OnFrame: func(line int, frameResult tracking.FrameResult) {
			log.Debugf("%5d | %-40s | reps: %d", line, frameResult.Feedback, frameResult.Snapshot.TotalReps)
		},
	})
	if err != nil {
		log.Fatalf("replay: %s", err)
	}

	snapshot := result.Snapshot
	fmt.Printf("exercise:  %s\n", kind.DisplayName())
	fmt.Printf("frames:    %d (no pose: %d)\n", snapshot.Frames, snapshot.NoPoseFrames)
	fmt.Printf("duration:  %s\n", snapshot.ElapsedClock())
	fmt.Printf("reps:      %d\n", snapshot.TotalReps)
	if kind.HoldBased() {
		fmt.Printf("sets:      %d\n", snapshot.Counters.SetCount)
		fmt.Printf("held:      %s\n", snapshot.Counters.TotalHold)
	}

	if result.Workout == nil {
		fmt.Println("nothing recorded")
		return
	}
	fmt.Printf("notes:     %s\n", result.Workout.Notes)

	if *sqlitePath == "" {
		return
	}

	repo, err := workouts.NewSqliteRepo(*sqlitePath)
	if err != nil {
		log.Fatalf("open sqlite repo: %s", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warnf("close sqlite repo: %s", err)
		}
	}()

	saved, err := repo.Add(context.Background(), result.Workout)
	if err != nil {
		log.Errorf("save workout: %s", err)
		return
	}
	log.Infof("workout saved with id %d", saved.ID)
}
