// Package trainer runs headless self-play training sessions: two AI
// players, no rendering, ticks as fast as the host allows.
package trainer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gopongai/gopong/internal/ai"
	"github.com/gopongai/gopong/internal/core"
	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/storage"
)

// Trainer drives a session of AI-vs-AI games to completion. The game must
// be configured with AutoRestart and MaxGames; a zero reset delay keeps
// training from idling between points.
type Trainer struct {
	Game  *game.Game
	Left  *ai.Player
	Right *ai.Player

	// LeftPath and RightPath are where weights are saved. An empty path
	// disables saving for that side.
	LeftPath  string
	RightPath string

	// Games is the session length, used for progress reporting.
	Games int

	// SaveInterval saves weights every N completed games. 0 saves only
	// at the end and on interruption.
	SaveInterval int

	// ReportInterval logs progress every N completed games on top of the
	// 10% milestones. 0 keeps milestones only.
	ReportInterval int

	// Replay pre-trains both players on stored rallies before self-play.
	Replay bool

	Store  *storage.Store // Optional match persistence
	Logger *log.Logger
}

// Run trains until the session completes or the context is canceled.
// Weights are saved in both cases.
func (t *Trainer) Run(ctx context.Context) error {
	if t.Game == nil {
		return fmt.Errorf("trainer: no game configured")
	}
	logger := t.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if t.Replay && t.Store != nil {
		t.replay(logger)
	}

	milestone := t.Games / 10
	if milestone < 1 {
		milestone = 1
	}

	input := core.NewInputFrame()
	start := time.Now()
	completed := 0
	var winsLeft, winsRight int

	for !t.Game.Done() {
		select {
		case <-ctx.Done():
			logger.Warn("training interrupted", "completed", completed)
			if err := t.saveWeights(); err != nil {
				logger.Error("cannot save weights", "error", err)
			}
			return ctx.Err()
		default:
		}

		t.Game.Step(input)

		snap := t.Game.Snapshot()
		if snap.GamesCompleted == completed {
			continue
		}

		// A game just ended; the snapshot still holds its final state
		completed = snap.GamesCompleted
		if snap.Winner == game.SideLeft {
			winsLeft++
		} else {
			winsRight++
		}

		if t.Store != nil {
			_, err := t.Store.SaveMatch(storage.MatchResult{
				P1Type: "ai", P2Type: "ai",
				Score1: snap.Score1, Score2: snap.Score2,
				Winner:   snap.Winner,
				LeftHits: snap.LeftHits, RightHits: snap.RightHits,
				DurationTicks: snap.Tick,
			})
			if err != nil {
				logger.Warn("cannot save match", "error", err)
			}
		}

		if completed%milestone == 0 || (t.ReportInterval > 0 && completed%t.ReportInterval == 0) {
			logger.Info("training progress",
				"games", completed,
				"left_wins", winsLeft,
				"right_wins", winsRight,
				"last_score", fmt.Sprintf("%d-%d", snap.Score1, snap.Score2),
				"elapsed", time.Since(start).Round(time.Millisecond),
			)
		}

		if t.SaveInterval > 0 && completed%t.SaveInterval == 0 {
			if err := t.saveWeights(); err != nil {
				logger.Error("cannot save weights", "error", err)
			}
		}
	}

	if err := t.saveWeights(); err != nil {
		return err
	}

	logger.Info("training complete",
		"games", completed,
		"left_wins", winsLeft,
		"right_wins", winsRight,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// replay feeds stored rallies through both players before self-play.
func (t *Trainer) replay(logger *log.Logger) {
	points, err := t.Store.RecordedPoints(0)
	if err != nil {
		logger.Warn("cannot load recordings", "error", err)
		return
	}
	if len(points) == 0 {
		logger.Info("no recordings to replay")
		return
	}

	records := make([]game.PointRecord, len(points))
	for i, p := range points {
		records[i] = p.Point
	}

	var frames int
	if t.Left != nil {
		frames += t.Left.ReplayRecordings(records, game.SideLeft)
	}
	if t.Right != nil {
		frames += t.Right.ReplayRecordings(records, game.SideRight)
	}
	logger.Info("replayed recordings", "points", len(records), "frames", frames)
}

// saveWeights writes both players' weights to their configured paths.
func (t *Trainer) saveWeights() error {
	if t.Left != nil && t.LeftPath != "" {
		if err := t.Left.Save(t.LeftPath); err != nil {
			return err
		}
	}
	if t.Right != nil && t.RightPath != "" {
		if err := t.Right.Save(t.RightPath); err != nil {
			return err
		}
	}
	return nil
}
