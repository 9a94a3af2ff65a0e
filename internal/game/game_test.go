package game

import (
	"strings"
	"testing"

	"github.com/gopongai/gopong/internal/core"
)

// scriptedPlayer always returns the same move.
type scriptedPlayer struct {
	move Move
}

func (p *scriptedPlayer) Decide(Observation) Move { return p.move }

// learnerStub records every reward and game-over notification it receives.
type learnerStub struct {
	scriptedPlayer
	rewards []float64
	overs   []bool
}

func (p *learnerStub) Reward(r float64)  { p.rewards = append(p.rewards, r) }
func (p *learnerStub) GameOver(won bool) { p.overs = append(p.overs, won) }

func TestGameDeterminism(t *testing.T) {
	// Two games with the same seed and inputs should stay identical
	cfg := DefaultConfig()
	cfg.Seed = 12345

	g1 := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})
	g2 := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})

	input := core.NewInputFrame()
	for i := 0; i < 500; i++ {
		g1.Step(input)
		g2.Step(input)
	}

	s1 := g1.Snapshot()
	s2 := g2.Snapshot()

	if s1.Tick != s2.Tick {
		t.Errorf("Tick mismatch: %d vs %d", s1.Tick, s2.Tick)
	}
	if s1.BallX != s2.BallX || s1.BallY != s2.BallY {
		t.Errorf("Ball position mismatch: (%v,%v) vs (%v,%v)", s1.BallX, s1.BallY, s2.BallX, s2.BallY)
	}
	if s1.Score1 != s2.Score1 || s1.Score2 != s2.Score2 {
		t.Errorf("Score mismatch: %d-%d vs %d-%d", s1.Score1, s1.Score2, s2.Score1, s2.Score2)
	}
	if s1.LeftY != s2.LeftY || s1.RightY != s2.RightY {
		t.Errorf("Paddle mismatch: (%v,%v) vs (%v,%v)", s1.LeftY, s1.RightY, s2.LeftY, s2.RightY)
	}
}

func TestGameServeHold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 10

	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})
	if g.phase != PhasePointScored {
		t.Fatalf("phase = %v, expected PhasePointScored right after the serve", g.phase)
	}

	startX := g.Snapshot().BallX
	input := core.NewInputFrame()
	for i := 0; i < 10; i++ {
		g.Step(input)
		if got := g.Snapshot().BallX; got != startX {
			t.Fatalf("BallX = %v at hold tick %d, expected pinned at %v", got, i+1, startX)
		}
	}

	if g.phase != PhasePlaying {
		t.Fatalf("phase = %v, expected PhasePlaying after the hold expires", g.phase)
	}
	g.Step(input)
	if got := g.Snapshot().BallX; got == startX {
		t.Error("ball did not move on the first live tick")
	}
}

func TestGamePaddlesMoveDuringServeHold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 30

	g := New(cfg, &scriptedPlayer{move: MoveDown}, &scriptedPlayer{move: MoveUp})
	startLeft := g.Snapshot().LeftY
	startRight := g.Snapshot().RightY

	input := core.NewInputFrame()
	for i := 0; i < 3; i++ {
		g.Step(input)
	}

	s := g.Snapshot()
	if s.LeftY <= startLeft {
		t.Errorf("LeftY = %v, expected below %v while held", s.LeftY, startLeft)
	}
	if s.RightY >= startRight {
		t.Errorf("RightY = %v, expected above %v while held", s.RightY, startRight)
	}
}

func TestGameHumanHoldUp(t *testing.T) {
	// Holding a key moves the paddle by its speed every tick
	cfg := DefaultConfig()

	p1 := NewHumanPlayer(core.ActionP1Up, core.ActionP1Down)
	g := New(cfg, p1, &scriptedPlayer{})
	g.left.Y = 100

	held := core.NewInputFrame()
	held.Set(core.ActionP1Up)
	for i := 0; i < 5; i++ {
		g.Step(held)
	}

	if got := g.Snapshot().LeftY; got != 75 {
		t.Errorf("LeftY = %v, expected 75 after five ticks at speed %v", got, cfg.PaddleSpeed)
	}
}

func TestGamePause(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 0

	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)

	if !g.Snapshot().Paused {
		t.Fatal("game should be paused after ActionPause")
	}

	empty := core.NewInputFrame()
	tickBefore := g.Snapshot().Tick
	for i := 0; i < 5; i++ {
		g.Step(empty)
	}
	if got := g.Snapshot().Tick; got != tickBefore {
		t.Errorf("Tick = %d, expected frozen at %d while paused", got, tickBefore)
	}

	g.Step(pause)
	if g.Snapshot().Paused {
		t.Error("game should resume after a second ActionPause")
	}
	if got := g.Snapshot().Tick; got != tickBefore+1 {
		t.Errorf("Tick = %d, expected %d on the resume tick", got, tickBefore+1)
	}
}

func TestGameOverAndRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 0
	cfg.PointsToWin = 1

	left := &learnerStub{}
	right := &learnerStub{}
	g := New(cfg, left, right)

	// Force an immediate point for player 2
	g.ball.Pos = core.Vec2{X: 1, Y: 100}
	g.ball.Vel = core.Vec2{X: -5, Y: 0}
	g.Step(core.NewInputFrame())

	s := g.Snapshot()
	if s.Phase != PhaseGameOver {
		t.Fatalf("Phase = %v, expected PhaseGameOver", s.Phase)
	}
	if !s.HasWinner || s.Winner != SideRight {
		t.Fatalf("Winner = (%v, %v), expected (right, true)", s.Winner, s.HasWinner)
	}
	if s.GamesCompleted != 1 {
		t.Errorf("GamesCompleted = %d, expected 1", s.GamesCompleted)
	}

	// Steps without ActionStart stay in game over
	empty := core.NewInputFrame()
	for i := 0; i < 5; i++ {
		g.Step(empty)
	}
	if g.phase != PhaseGameOver {
		t.Fatalf("phase = %v, expected to wait for restart", g.phase)
	}

	// Learning players were told exactly once, with the right outcome
	if len(left.overs) != 1 || left.overs[0] != false {
		t.Errorf("left GameOver calls = %v, expected one loss", left.overs)
	}
	if len(right.overs) != 1 || right.overs[0] != true {
		t.Errorf("right GameOver calls = %v, expected one win", right.overs)
	}

	start := core.NewInputFrame()
	start.Set(core.ActionStart)
	g.Step(start)

	s = g.Snapshot()
	if s.Score1 != 0 || s.Score2 != 0 {
		t.Errorf("score = %d-%d, expected 0-0 after restart", s.Score1, s.Score2)
	}
	if s.Phase != PhasePlaying {
		t.Errorf("Phase = %v, expected PhasePlaying with no reset delay", s.Phase)
	}
}

func TestGameMaxGamesWithAutoRestart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 0
	cfg.PointsToWin = 1
	cfg.MaxGames = 2
	cfg.AutoRestart = true
	cfg.PaddleH = 1 // Nobody can return the serve, so games end fast

	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})

	input := core.NewInputFrame()
	for i := 0; i < 5000 && !g.Done(); i++ {
		g.Step(input)
	}

	if !g.Done() {
		t.Fatal("session did not finish within 5000 ticks")
	}
	if got := g.GamesCompleted(); got != 2 {
		t.Errorf("GamesCompleted = %d, expected 2", got)
	}

	// Finished games ignore further steps
	tick := g.Snapshot().Tick
	g.Step(input)
	if got := g.Snapshot().Tick; got != tick {
		t.Errorf("Tick = %d, expected frozen at %d once finished", got, tick)
	}
}

func TestGameHitRewardAndRecorder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 0

	left := &learnerStub{}
	g := New(cfg, left, &scriptedPlayer{})
	rec := NewBufferRecorder()
	g.SetRecorder(rec)

	// Put the ball right in front of the centered left paddle
	g.ball.Pos = core.Vec2{X: 66, Y: 262.5}
	g.ball.Vel = core.Vec2{X: -5, Y: 0}
	g.Step(core.NewInputFrame())

	if len(left.rewards) != 1 || left.rewards[0] != cfg.HitReward {
		t.Fatalf("rewards = %v, expected one hit reward of %v", left.rewards, cfg.HitReward)
	}
	if len(rec.frames) != 1 || !rec.frames[0].LeftHit {
		t.Fatalf("recorded frames = %d, expected one frame with LeftHit", len(rec.frames))
	}

	// Now force a point for player 2 and check the rally bundle
	g.ball.Pos = core.Vec2{X: 1, Y: 100}
	g.ball.Vel = core.Vec2{X: -5, Y: 0}
	g.Step(core.NewInputFrame())

	if rec.Len() != 1 {
		t.Fatalf("recorded points = %d, expected 1", rec.Len())
	}
	point := rec.Points()[0]
	if point.Winner != SideRight {
		t.Errorf("point winner = %v, expected right", point.Winner)
	}
	if point.LeftHits != 1 || point.RightHits != 0 {
		t.Errorf("point hits = (%d, %d), expected (1, 0)", point.LeftHits, point.RightHits)
	}
	if len(point.Frames) != 2 {
		t.Errorf("point frames = %d, expected 2", len(point.Frames))
	}

	// Per-game hit totals survive the point
	if got := g.Snapshot().LeftHits; got != 1 {
		t.Errorf("LeftHits = %d, expected 1 carried across points", got)
	}
}

func TestGameServesTowardScorer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 0

	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})

	g.ball.Pos = core.Vec2{X: 1, Y: 100}
	g.ball.Vel = core.Vec2{X: -5, Y: 0}
	g.Step(core.NewInputFrame())

	s := g.Snapshot()
	if s.Score2 != 1 {
		t.Fatalf("Score2 = %d, expected 1", s.Score2)
	}
	// Player 2 scored, so the fresh serve heads right
	if s.BallVX <= 0 {
		t.Errorf("BallVX = %v, expected serve toward the scorer", s.BallVX)
	}
	if s.BallX != (cfg.FieldW-cfg.BallSize)/2 {
		t.Errorf("BallX = %v, expected recentered serve", s.BallX)
	}
}

func TestGameRecorderIdleDuringServeHold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetDelayTicks = 5

	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})
	rec := NewBufferRecorder()
	g.SetRecorder(rec)

	input := core.NewInputFrame()
	for i := 0; i < 5; i++ {
		g.Step(input)
	}
	if len(rec.frames) != 0 {
		t.Errorf("frames = %d, expected none during the serve hold", len(rec.frames))
	}

	g.Step(input)
	if len(rec.frames) != 1 {
		t.Errorf("frames = %d, expected 1 after the first live tick", len(rec.frames))
	}
}

func TestGameRender(t *testing.T) {
	cfg := DefaultConfig()
	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})
	g.SetLabels("P1", "CPU")

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	content := screen.String()
	if !strings.Contains(content, "0 - 0") {
		t.Error("header should show the 0 - 0 score")
	}
	if !strings.Contains(content, "P1") || !strings.Contains(content, "CPU") {
		t.Error("header should show both player labels")
	}
	if !strings.ContainsRune(content, PaddleChar) {
		t.Error("field should contain paddle cells")
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	cfg := DefaultConfig()
	g := New(cfg, &scriptedPlayer{}, &scriptedPlayer{})

	screen := core.NewScreen(10, 5)
	g.Render(screen)

	if !strings.Contains(screen.String(), "small") {
		t.Error("undersized terminal should show the too-small notice")
	}
}
