package game

// Snapshot is a read-only copy of the game state for trainers, tests and
// UI code that must not reach into live fields mid-tick.
type Snapshot struct {
	Tick  int
	Phase Phase

	BallX, BallY   float64
	BallVX, BallVY float64
	LeftY, RightY  float64

	Score1, Score2 int
	// Paddle hits per side across the whole current game.
	LeftHits, RightHits int

	Winner         Side
	HasWinner      bool
	GamesCompleted int
	Paused         bool
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:           g.tick,
		Phase:          g.phase,
		BallX:          g.ball.Pos.X,
		BallY:          g.ball.Pos.Y,
		BallVX:         g.ball.Vel.X,
		BallVY:         g.ball.Vel.Y,
		LeftY:          g.left.Y,
		RightY:         g.right.Y,
		Score1:         g.score.P1,
		Score2:         g.score.P2,
		LeftHits:       g.hitTotals[SideLeft],
		RightHits:      g.hitTotals[SideRight],
		Winner:         g.lastWinner,
		HasWinner:      g.hasWinner,
		GamesCompleted: g.gamesDone,
		Paused:         g.paused,
	}
}
