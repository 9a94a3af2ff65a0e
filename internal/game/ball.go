package game

import (
	"math"
	"math/rand"

	"github.com/gopongai/gopong/internal/core"
)

// ScoreEvent reports what a ball movement did to the score.
type ScoreEvent int

const (
	NoScore ScoreEvent = iota
	Player1Scored
	Player2Scored
)

// Ball is the game ball. Position is the top-left corner of its square
// bounding box; velocity is in field units per tick. The ball never resets
// itself: when it leaves the field it reports the score event and the Game
// decides what happens next.
type Ball struct {
	Pos  core.Vec2
	Vel  core.Vec2
	Size float64

	fieldW, fieldH float64
	speed          float64
	maxBounceAngle float64

	hitBy  Side
	hasHit bool
}

// NewBall creates a ball at the field center with zero velocity.
// Call Reset to serve it.
func NewBall(cfg Config) *Ball {
	b := &Ball{
		Size:           cfg.BallSize,
		fieldW:         cfg.FieldW,
		fieldH:         cfg.FieldH,
		speed:          cfg.BallSpeed,
		maxBounceAngle: cfg.MaxBounceAngle,
	}
	b.center()
	return b
}

func (b *Ball) center() {
	b.Pos.X = (b.fieldW - b.Size) / 2
	b.Pos.Y = (b.fieldH - b.Size) / 2
}

// Rect returns the ball's bounding box in field units.
func (b *Ball) Rect() core.FRect {
	return core.NewFRect(b.Pos.X, b.Pos.Y, b.Size, b.Size)
}

// CenterX returns the horizontal center of the ball.
func (b *Ball) CenterX() float64 {
	return b.Pos.X + b.Size/2
}

// CenterY returns the vertical center of the ball.
func (b *Ball) CenterY() float64 {
	return b.Pos.Y + b.Size/2
}

// Move advances the ball one tick: position update, wall bounce, paddle
// deflection, then scoring. Wall bounces flip the vertical velocity sign
// without changing its magnitude. Paddle bounces reflect the ball at an
// angle proportional to where it struck the paddle face, preserving speed.
func (b *Ball) Move(left, right *Paddle) ScoreEvent {
	b.hasHit = false

	b.Pos = b.Pos.Add(b.Vel)

	// Top and bottom walls
	if b.Pos.Y <= 0 {
		b.Pos.Y = 0
		b.Vel.Y = -b.Vel.Y
	}
	if b.Pos.Y >= b.fieldH-b.Size {
		b.Pos.Y = b.fieldH - b.Size
		b.Vel.Y = -b.Vel.Y
	}

	// Paddles deflect only a ball moving toward them, so a ball sliding
	// along the paddle back cannot bounce twice.
	if b.Vel.X < 0 && b.Rect().Intersects(left.Rect()) {
		b.bounceOff(left, 1)
		b.hitBy = SideLeft
		b.hasHit = true
	} else if b.Vel.X > 0 && b.Rect().Intersects(right.Rect()) {
		b.bounceOff(right, -1)
		b.hitBy = SideRight
		b.hasHit = true
	}

	if b.Pos.X < 0 {
		return Player2Scored
	}
	if b.Pos.X > b.fieldW {
		return Player1Scored
	}
	return NoScore
}

// bounceOff reflects the ball off a paddle. The contact point relative to
// the paddle center, in [-1, 1], selects the outgoing angle up to
// maxBounceAngle; the speed magnitude is preserved.
func (b *Ball) bounceOff(p *Paddle, dir float64) {
	speed := b.Vel.Len()

	rel := (b.CenterY() - p.CenterY()) / (p.H / 2)
	rel = core.ClampF(rel, -1, 1)
	angle := rel * b.maxBounceAngle

	b.Vel.X = dir * speed * math.Cos(angle)
	b.Vel.Y = speed * math.Sin(angle)

	// Push the ball onto the paddle face so it cannot tunnel through
	if dir > 0 {
		b.Pos.X = p.X + p.W
	} else {
		b.Pos.X = p.X - b.Size
	}
}

// HitBy reports which paddle the ball contacted during the last Move.
func (b *Ball) HitBy() (Side, bool) {
	return b.hitBy, b.hasHit
}

// Reset centers the ball and serves it toward the given side with a fresh
// randomized direction. The vertical angle is uniform within ±45 degrees
// and the velocity magnitude is exactly the configured ball speed.
func (b *Ball) Reset(towards Side, rng *rand.Rand) {
	b.center()
	b.hasHit = false

	angle := (rng.Float64()*2 - 1) * math.Pi / 4
	dir := 1.0
	if towards == SideLeft {
		dir = -1.0
	}
	b.Vel.X = dir * b.speed * math.Cos(angle)
	b.Vel.Y = b.speed * math.Sin(angle)
}
