package game

import "github.com/gopongai/gopong/internal/core"

// Grid cell markers.
const (
	GridEmpty  = 0.0
	GridBall   = 1.0
	GridPaddle = 2.0
)

// Grid is a coarse snapshot of the field, row-major. It is the observation
// an AI player decides on: the ball marked 1.0, paddle cells 2.0, empty 0.0.
type Grid struct {
	W, H  int
	Cells []float64
}

// At returns the value at grid position (x, y).
func (g Grid) At(x, y int) float64 {
	return g.Cells[y*g.W+x]
}

// GridEncoder bins continuous field positions into a fixed W×H grid.
// Encoding is a pure function of the current positions: the same inputs
// always produce the same grid, with no history or hidden state.
type GridEncoder struct {
	w, h           int
	cellW, cellH   float64
	fieldW, fieldH float64
}

// NewGridEncoder creates an encoder for the configured field and grid size.
func NewGridEncoder(cfg Config) *GridEncoder {
	return &GridEncoder{
		w:      cfg.GridW,
		h:      cfg.GridH,
		cellW:  cfg.FieldW / float64(cfg.GridW),
		cellH:  cfg.FieldH / float64(cfg.GridH),
		fieldW: cfg.FieldW,
		fieldH: cfg.FieldH,
	}
}

// Size returns the grid dimensions.
func (e *GridEncoder) Size() (w, h int) {
	return e.w, e.h
}

// Encode produces a fresh grid for the given ball and paddle positions.
func (e *GridEncoder) Encode(ball *Ball, left, right *Paddle) Grid {
	g := Grid{W: e.w, H: e.h, Cells: make([]float64, e.w*e.h)}

	e.markPaddle(g, left)
	e.markPaddle(g, right)

	// Ball last so it stays visible when it overlaps a paddle column
	bx := e.binX(ball.CenterX())
	by := e.binY(ball.CenterY())
	g.Cells[by*e.w+bx] = GridBall

	return g
}

// markPaddle fills the paddle's column from its top to its bottom edge.
func (e *GridEncoder) markPaddle(g Grid, p *Paddle) {
	x := e.binX(p.CenterX())
	top := e.binY(p.Y)
	bottom := e.binY(p.Y + p.H)
	for y := top; y <= bottom; y++ {
		g.Cells[y*e.w+x] = GridPaddle
	}
}

func (e *GridEncoder) binX(x float64) int {
	return core.Clamp(int(x/e.cellW), 0, e.w-1)
}

func (e *GridEncoder) binY(y float64) int {
	return core.Clamp(int(y/e.cellH), 0, e.h-1)
}
