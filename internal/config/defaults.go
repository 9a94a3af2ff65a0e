package config

import (
	_ "embed"
)

//go:embed defaults/gopong.yaml
var defaultYAML []byte

// Default returns the standard configuration: an 800x540 field, classic
// paddle and ball sizes, first to 11 points.
func Default() GameConfig {
	return GameConfig{
		Field: FieldConfig{
			Width:  800,
			Height: 540,
		},
		Paddle: PaddleConfig{
			Width:  15,
			Height: 90,
			Speed:  5,
			Offset: 50,
		},
		Ball: BallConfig{
			Size:              15,
			Speed:             5,
			MaxBounceAngleDeg: 60,
		},
		Rules: RulesConfig{
			PointsToWin:  11,
			WinByTwo:     false,
			ResetDelayMs: 1000,
		},
		Grid: GridConfig{
			Width:  40,
			Height: 30,
		},
		AI: AIConfig{
			NumNodes:     20,
			LearningRate: 0.02,
			Deadzone:     0.05,
			HitReward:    0.1,
		},
	}
}
