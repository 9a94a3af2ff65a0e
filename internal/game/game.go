package game

import (
	"fmt"
	"math/rand"

	"github.com/gopongai/gopong/internal/core"
)

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// headerRows is the score header height above the play field.
const headerRows = 2

// Phase is the match state machine.
type Phase int

const (
	// PhasePlaying runs full physics.
	PhasePlaying Phase = iota
	// PhasePointScored holds the served ball at center for the reset delay;
	// paddles keep moving.
	PhasePointScored
	// PhaseGameOver waits for a restart (or restarts immediately with
	// AutoRestart).
	PhaseGameOver
	// PhaseFinished means MaxGames completed games; Step becomes a no-op.
	PhaseFinished
)

// Game owns the ball, paddles, players and score, and advances them one
// tick at a time. It is deterministic for a fixed seed and input sequence.
type Game struct {
	cfg     Config
	ball    *Ball
	left    *Paddle
	right   *Paddle
	players [2]Player
	score   *Score
	encoder *GridEncoder
	rng     *rand.Rand

	recorder Recorder
	labels   [2]string

	phase      Phase
	resetTicks int
	paused     bool
	tick       int
	gamesDone  int
	lastWinner Side
	hasWinner  bool
	hitTotals  [2]int
}

// New creates a game with the given players on the left and right paddles.
func New(cfg Config, p1, p2 Player) *Game {
	g := &Game{
		cfg:     cfg,
		players: [2]Player{p1, p2},
		score:   NewScore(cfg.PointsToWin, cfg.WinByTwo),
		encoder: NewGridEncoder(cfg),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		labels:  [2]string{"P1", "P2"},
	}
	g.ball = NewBall(cfg)
	g.left = NewPaddle(SideLeft, cfg)
	g.right = NewPaddle(SideRight, cfg)
	g.restart()
	return g
}

// SetRecorder attaches a gameplay recorder. Pass nil to disable.
func (g *Game) SetRecorder(r Recorder) {
	g.recorder = r
}

// SetLabels sets the header names shown for the two players.
func (g *Game) SetLabels(p1, p2 string) {
	g.labels[SideLeft] = p1
	g.labels[SideRight] = p2
}

// Encoder returns the game's grid encoder, shared with AI construction so
// player weights always match the observation size.
func (g *Game) Encoder() *GridEncoder {
	return g.encoder
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) {
	switch g.phase {
	case PhaseFinished:
		return
	case PhaseGameOver:
		if g.cfg.AutoRestart || in.Has(core.ActionStart) {
			g.restart()
		}
		return
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return
	}

	g.tick++

	grid := g.encoder.Encode(g.ball, g.left, g.right)
	obs := Observation{In: in, Grid: grid}
	moveL := g.players[SideLeft].Decide(obs)
	moveR := g.players[SideRight].Decide(obs)
	g.left.Apply(moveL)
	g.right.Apply(moveR)

	// Serve hold: ball pinned at center, paddles already moved
	if g.phase == PhasePointScored {
		g.resetTicks--
		if g.resetTicks <= 0 {
			g.phase = PhasePlaying
		}
		return
	}

	ev := g.ball.Move(g.left, g.right)

	var hitL, hitR bool
	if side, ok := g.ball.HitBy(); ok {
		hitL = side == SideLeft
		hitR = side == SideRight
		g.score.AddHit(side)
		g.hitTotals[side]++
		g.reward(side, g.cfg.HitReward)
	}

	if g.recorder != nil {
		g.recorder.RecordFrame(FrameRecord{
			Tick:      g.tick,
			Grid:      grid.Cells,
			BallX:     g.ball.Pos.X,
			BallY:     g.ball.Pos.Y,
			LeftY:     g.left.Y,
			RightY:    g.right.Y,
			LeftMove:  moveL,
			RightMove: moveR,
			LeftHit:   hitL,
			RightHit:  hitR,
		})
	}

	if ev == NoScore {
		return
	}

	scorer := SideLeft
	if ev == Player2Scored {
		scorer = SideRight
	}
	g.score.Add(scorer)
	if g.recorder != nil {
		g.recorder.RecordPoint(scorer, g.score.Hits(SideLeft), g.score.Hits(SideRight))
	}
	g.score.ResetHits()

	if winner, over := g.score.Winner(); over {
		g.finishGame(winner)
		return
	}

	g.serve(scorer)
}

// serve centers everything and sends the ball toward the given side.
func (g *Game) serve(towards Side) {
	g.ball.Reset(towards, g.rng)
	g.left.Recenter()
	g.right.Recenter()
	g.resetTicks = g.cfg.ResetDelayTicks
	if g.resetTicks > 0 {
		g.phase = PhasePointScored
	} else {
		g.phase = PhasePlaying
	}
}

// finishGame closes out a decided game and notifies learning players
// exactly once.
func (g *Game) finishGame(winner Side) {
	g.lastWinner = winner
	g.hasWinner = true
	g.gamesDone++
	g.phase = PhaseGameOver

	for side, p := range g.players {
		if l, ok := p.(Learner); ok {
			l.GameOver(Side(side) == winner)
		}
	}

	if g.cfg.MaxGames > 0 && g.gamesDone >= g.cfg.MaxGames {
		g.phase = PhaseFinished
	}
}

// restart begins a fresh game. The serve direction is randomized.
func (g *Game) restart() {
	g.score.Reset()
	g.hitTotals = [2]int{}
	g.hasWinner = false
	g.paused = false
	g.tick = 0

	towards := SideLeft
	if g.rng.Float64() < 0.5 {
		towards = SideRight
	}
	g.serve(towards)
}

// reward grants a shaping reward to the side's player if it learns.
func (g *Game) reward(side Side, r float64) {
	if l, ok := g.players[side].(Learner); ok {
		l.Reward(r)
	}
}

// Done reports whether the configured number of games has completed.
func (g *Game) Done() bool {
	return g.phase == PhaseFinished
}

// GamesCompleted returns how many games have finished this session.
func (g *Game) GamesCompleted() int {
	return g.gamesDone
}

// Render draws the header and the scaled play field into the screen buffer.
// Never called in headless mode.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	w := dst.Width()
	h := dst.Height()
	fieldRows := h - headerRows
	if w < 20 || fieldRows < 6 {
		dst.DrawTextCentered(h/2, "Terminal too small")
		return
	}

	sx := float64(w) / g.cfg.FieldW
	sy := float64(fieldRows) / g.cfg.FieldH

	// Header: labels, score, divider
	dst.DrawTextColored(2, 0, g.labels[SideLeft], core.ColorGray)
	rightLabel := g.labels[SideRight]
	dst.DrawTextColored(w-len(rightLabel)-2, 0, rightLabel, core.ColorGray)
	scoreText := fmt.Sprintf("%d - %d", g.score.P1, g.score.P2)
	dst.DrawTextColored((w-len(scoreText))/2, 0, scoreText, core.ColorBrightWhite)
	dst.DrawHLine(0, 1, w, core.Cell{Rune: '─', Color: core.ColorGray})

	// Net
	cx := w / 2
	for y := headerRows; y < h; y += 2 {
		dst.SetCell(cx, y, core.Cell{Rune: NetChar, Color: core.ColorGray})
	}

	g.renderPaddle(dst, g.left, sx, sy, core.ColorBrightCyan)
	g.renderPaddle(dst, g.right, sx, sy, core.ColorGreen)

	// Ball blinks while held for the serve
	if g.phase != PhasePointScored || (g.resetTicks/10)%2 == 0 {
		bx := int(g.ball.CenterX() * sx)
		by := headerRows + int(g.ball.CenterY()*sy)
		dst.SetCell(bx, by, core.Cell{Rune: BallChar, Color: core.ColorBrightYellow})
	}

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.phase == PhaseGameOver || g.phase == PhaseFinished {
		title := "PLAYER 1 WINS!"
		if g.lastWinner == SideRight {
			title = "PLAYER 2 WINS!"
		}
		subtitle := fmt.Sprintf("%d - %d  |  Space for a new match", g.score.P1, g.score.P2)
		if g.phase == PhaseFinished {
			subtitle = fmt.Sprintf("%d - %d  |  Session complete", g.score.P1, g.score.P2)
		}
		g.drawCenteredMessage(dst, title, subtitle)
	}
}

// renderPaddle draws a paddle as a vertical bar at its scaled position.
func (g *Game) renderPaddle(dst *core.Screen, p *Paddle, sx, sy float64, color core.Color) {
	x := int(p.CenterX() * sx)
	top := headerRows + int(p.Y*sy)
	bottom := headerRows + int((p.Y+p.H)*sy)
	if bottom <= top {
		bottom = top + 1
	}
	for y := top; y < bottom; y++ {
		dst.SetCell(x, y, core.Cell{Rune: PaddleChar, Color: color})
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, core.Cell{Rune: ' '})
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
