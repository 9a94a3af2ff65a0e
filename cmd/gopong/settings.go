package main

import (
	"math"
	"time"

	"github.com/gopongai/gopong/internal/ai"
	"github.com/gopongai/gopong/internal/config"
	"github.com/gopongai/gopong/internal/game"
)

// buildGameConfig converts file settings to engine units. The file
// carries durations in milliseconds and angles in degrees; the engine
// wants ticks and radians.
func buildGameConfig(fileCfg config.GameConfig, fps int, seed int64) game.Config {
	if fps <= 0 {
		fps = 60
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return game.Config{
		FieldW:          fileCfg.Field.Width,
		FieldH:          fileCfg.Field.Height,
		PaddleW:         fileCfg.Paddle.Width,
		PaddleH:         fileCfg.Paddle.Height,
		PaddleSpeed:     fileCfg.Paddle.Speed,
		PaddleOffset:    fileCfg.Paddle.Offset,
		BallSize:        fileCfg.Ball.Size,
		BallSpeed:       fileCfg.Ball.Speed,
		MaxBounceAngle:  fileCfg.Ball.MaxBounceAngleDeg * math.Pi / 180,
		PointsToWin:     fileCfg.Rules.PointsToWin,
		WinByTwo:        fileCfg.Rules.WinByTwo,
		GridW:           fileCfg.Grid.Width,
		GridH:           fileCfg.Grid.Height,
		ResetDelayTicks: fileCfg.Rules.ResetDelayMs * fps / 1000,
		HitReward:       fileCfg.AI.HitReward,
		Seed:            seed,
	}
}

// aiOptions converts the AI section of the rules file.
func aiOptions(fileCfg config.GameConfig, seed int64) ai.Options {
	return ai.Options{
		NumNodes:     fileCfg.AI.NumNodes,
		LearningRate: fileCfg.AI.LearningRate,
		Deadzone:     fileCfg.AI.Deadzone,
		Seed:         seed,
	}
}
