package game

import "github.com/gopongai/gopong/internal/core"

// Paddle is a vertically moving bat. X is fixed at construction; only Y
// changes, clamped so the paddle never leaves the field.
type Paddle struct {
	X, Y  float64 // Top-left corner in field units
	W, H  float64
	Speed float64

	fieldH float64
}

// NewPaddle creates a paddle for the given side, vertically centered.
func NewPaddle(side Side, cfg Config) *Paddle {
	x := cfg.PaddleOffset
	if side == SideRight {
		x = cfg.FieldW - cfg.PaddleOffset - cfg.PaddleW
	}
	p := &Paddle{
		X:      x,
		W:      cfg.PaddleW,
		H:      cfg.PaddleH,
		Speed:  cfg.PaddleSpeed,
		fieldH: cfg.FieldH,
	}
	p.Recenter()
	return p
}

// MoveUp shifts the paddle up by its speed, clamped to the field.
func (p *Paddle) MoveUp() {
	p.Y = core.ClampF(p.Y-p.Speed, 0, p.fieldH-p.H)
}

// MoveDown shifts the paddle down by its speed, clamped to the field.
func (p *Paddle) MoveDown() {
	p.Y = core.ClampF(p.Y+p.Speed, 0, p.fieldH-p.H)
}

// Apply moves the paddle according to a player decision.
func (p *Paddle) Apply(m Move) {
	switch m {
	case MoveUp:
		p.MoveUp()
	case MoveDown:
		p.MoveDown()
	}
}

// Recenter puts the paddle back in the vertical middle of the field.
func (p *Paddle) Recenter() {
	p.Y = (p.fieldH - p.H) / 2
}

// Rect returns the paddle's bounding box in field units.
func (p *Paddle) Rect() core.FRect {
	return core.NewFRect(p.X, p.Y, p.W, p.H)
}

// CenterX returns the horizontal center of the paddle.
func (p *Paddle) CenterX() float64 {
	return p.X + p.W/2
}

// CenterY returns the vertical center of the paddle.
func (p *Paddle) CenterY() float64 {
	return p.Y + p.H/2
}
