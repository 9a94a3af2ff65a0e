// Package ai implements the learning paddle controller: a bank of sigmoid
// units over the encoded field grid, adjusted by reward-weighted updates.
// No external learning framework, the model is small enough to train live
// between ticks at 60fps.
package ai

import (
	"math"
	"math/rand"

	"github.com/gopongai/gopong/internal/game"
)

// Default hyperparameters. They are deliberately forgiving: the model is
// a shallow ensemble and learns from sparse rewards.
const (
	DefaultNumNodes     = 20
	DefaultLearningRate = 0.02
	DefaultDeadzone     = 0.05
)

// Terminal and replay rewards.
const (
	winReward      = 1.0
	rallyWinReward = 2.0 // Winning after returning the ball at least twice
	lossReward     = -1.0
	replayReward   = 0.1
)

// Options configures a new player. Zero values fall back to defaults.
type Options struct {
	NumNodes     int
	LearningRate float64
	// Deadzone is the band around 0.5 where the player holds still
	// instead of committing to a direction.
	Deadzone float64
	Seed     int64
}

// Player is an AI paddle controller implementing game.Player and
// game.Learner. Each unit scores the flattened grid through a sigmoid;
// the mean activation picks the move. Learning nudges every unit toward
// or away from the inputs that were active when a reward arrives.
type Player struct {
	gridW, gridH int
	numNodes     int
	lr           float64
	deadzone     float64

	units [][]float64
	bias  float64

	lastInput []float64
	rallyHits int

	gamesPlayed int
	totalReward float64
}

// NewPlayer creates a player for the given grid size with randomly
// initialized units.
func NewPlayer(gridW, gridH int, opts Options) *Player {
	if opts.NumNodes <= 0 {
		opts.NumNodes = DefaultNumNodes
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = DefaultLearningRate
	}
	if opts.Deadzone <= 0 {
		opts.Deadzone = DefaultDeadzone
	}

	inputs := gridW * gridH
	rng := rand.New(rand.NewSource(opts.Seed))
	scale := math.Sqrt(2.0 / float64(inputs))

	units := make([][]float64, opts.NumNodes)
	for i := range units {
		u := make([]float64, inputs)
		for j := range u {
			u[j] = rng.NormFloat64() * scale
		}
		units[i] = u
	}

	return &Player{
		gridW:    gridW,
		gridH:    gridH,
		numNodes: opts.NumNodes,
		lr:       opts.LearningRate,
		deadzone: opts.Deadzone,
		units:    units,
	}
}

// Decide maps the grid observation to a move. The observation is copied
// so later learning updates see the state the decision was made on.
func (p *Player) Decide(obs game.Observation) game.Move {
	x := obs.Grid.Cells
	if len(p.lastInput) != len(x) {
		p.lastInput = make([]float64, len(x))
	}
	copy(p.lastInput, x)

	prob := p.forward(x)
	switch {
	case prob > 0.5+p.deadzone:
		return game.MoveUp
	case prob < 0.5-p.deadzone:
		return game.MoveDown
	default:
		return game.MoveStay
	}
}

// forward returns the mean sigmoid activation across all units.
func (p *Player) forward(x []float64) float64 {
	var sum float64
	for _, u := range p.units {
		var z float64
		for i, v := range x {
			z += u[i] * v
		}
		sum += sigmoid(z + p.bias)
	}
	return sum / float64(p.numNodes)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Reward applies an in-game shaping reward against the last observation.
// Positive rewards mark successful returns and count toward the rally.
func (p *Player) Reward(r float64) {
	if r > 0 {
		p.rallyHits++
	}
	p.learnFrom(p.lastInput, r)
}

// GameOver applies the terminal reward for a finished game. A win earned
// with a real rally pays double.
func (p *Player) GameOver(won bool) {
	r := lossReward
	if won {
		r = winReward
		if p.rallyHits >= 2 {
			r = rallyWinReward
		}
	}
	p.learnFrom(p.lastInput, r)
	p.gamesPlayed++
	p.rallyHits = 0
}

// learnFrom shifts every unit toward (or away from) the given input in
// proportion to the reward. Inputs of the wrong size are ignored, which
// also covers the first ticks before any observation arrived.
func (p *Player) learnFrom(x []float64, r float64) bool {
	if len(x) != p.gridW*p.gridH {
		return false
	}

	delta := p.lr * r
	for _, u := range p.units {
		for i, v := range x {
			if v != 0 {
				u[i] += delta * v
			}
		}
	}
	p.bias += delta
	p.totalReward += r
	return true
}

// ReplayRecordings trains the player on previously recorded rallies,
// rewarding the frames where the given side returned the ball. Rallies
// with fewer than two total hits carry no signal and are skipped.
// Returns the number of frames learned from.
func (p *Player) ReplayRecordings(points []game.PointRecord, side game.Side) int {
	learned := 0
	for _, point := range points {
		if point.LeftHits+point.RightHits < 2 {
			continue
		}
		for _, f := range point.Frames {
			hit := f.LeftHit
			if side == game.SideRight {
				hit = f.RightHit
			}
			if !hit {
				continue
			}
			if p.learnFrom(f.Grid, replayReward) {
				learned++
			}
		}
	}
	return learned
}

// SetLearningRate overrides the learning rate, for resuming saved
// weights on a different training schedule. Non-positive values are
// ignored.
func (p *Player) SetLearningRate(lr float64) {
	if lr > 0 {
		p.lr = lr
	}
}

// GamesPlayed returns how many terminal rewards this player has seen.
func (p *Player) GamesPlayed() int {
	return p.gamesPlayed
}

// TotalReward returns the cumulative reward across the player's lifetime.
func (p *Player) TotalReward() float64 {
	return p.totalReward
}

var (
	_ game.Player  = (*Player)(nil)
	_ game.Learner = (*Player)(nil)
)
