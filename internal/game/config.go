// Package game implements the Pong simulation: ball physics, paddle
// movement, scoring, the player decision interfaces and the match state
// machine. It depends only on internal/core so it can run headless.
package game

import "math"

// Default field and gameplay settings, in field units per tick.
const (
	DefaultFieldW         = 800.0
	DefaultFieldH         = 540.0
	DefaultPaddleW        = 15.0
	DefaultPaddleH        = 90.0
	DefaultPaddleSpeed    = 5.0
	DefaultPaddleOffset   = 50.0 // Distance of paddle face from its wall
	DefaultBallSize       = 15.0
	DefaultBallSpeed      = 5.0
	DefaultMaxBounceAngle = math.Pi / 3 // 60 degrees at the paddle edge
	DefaultPointsToWin    = 11
	DefaultGridW          = 40
	DefaultGridH          = 30
	DefaultResetDelay     = 60 // Ticks the ball is held after a point (1s at 60fps)
	DefaultHitReward      = 0.1
)

// Config carries all tunables for a match.
type Config struct {
	FieldW, FieldH float64

	PaddleW, PaddleH float64
	PaddleSpeed      float64
	PaddleOffset     float64

	BallSize       float64
	BallSpeed      float64
	MaxBounceAngle float64

	PointsToWin int
	WinByTwo    bool

	GridW, GridH int

	// ResetDelayTicks holds the ball at center after each point.
	// Headless training sets this to 0.
	ResetDelayTicks int

	// MaxGames ends the session after that many completed games.
	// 0 means unlimited.
	MaxGames int

	// AutoRestart starts the next game without waiting for input.
	AutoRestart bool

	// HitReward is the shaping reward granted to a learning player
	// whenever its paddle contacts the ball.
	HitReward float64

	Seed int64
}

// DefaultConfig returns a Config with the standard field and rules.
func DefaultConfig() Config {
	return Config{
		FieldW:          DefaultFieldW,
		FieldH:          DefaultFieldH,
		PaddleW:         DefaultPaddleW,
		PaddleH:         DefaultPaddleH,
		PaddleSpeed:     DefaultPaddleSpeed,
		PaddleOffset:    DefaultPaddleOffset,
		BallSize:        DefaultBallSize,
		BallSpeed:       DefaultBallSpeed,
		MaxBounceAngle:  DefaultMaxBounceAngle,
		PointsToWin:     DefaultPointsToWin,
		GridW:           DefaultGridW,
		GridH:           DefaultGridH,
		ResetDelayTicks: DefaultResetDelay,
		HitReward:       DefaultHitReward,
		Seed:            1,
	}
}
