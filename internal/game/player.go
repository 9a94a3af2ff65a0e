package game

import "github.com/gopongai/gopong/internal/core"

// Move is a paddle decision for one tick.
type Move int

const (
	MoveStay Move = iota
	MoveUp
	MoveDown
)

// String returns a short name for the move.
func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	default:
		return "stay"
	}
}

// Observation is everything a player sees when deciding a move: the raw
// input frame for human players and the encoded grid for AI players.
type Observation struct {
	In   core.InputFrame
	Grid Grid
}

// Player decides one move per tick. Implementations must not retain the
// observation's grid slice beyond the call unless they copy it.
type Player interface {
	Decide(obs Observation) Move
}

// Learner is implemented by players that learn from rewards. The Game
// grants a shaping reward through Reward on each paddle contact and calls
// GameOver exactly once when a game ends.
type Learner interface {
	Reward(r float64)
	GameOver(won bool)
}

// HumanPlayer maps two input actions to paddle moves. Pressing both keys
// in the same tick cancels out to MoveStay.
type HumanPlayer struct {
	up, down core.Action
}

// NewHumanPlayer creates a player driven by the given up/down actions.
func NewHumanPlayer(up, down core.Action) *HumanPlayer {
	return &HumanPlayer{up: up, down: down}
}

// Decide translates the input frame into a move.
func (p *HumanPlayer) Decide(obs Observation) Move {
	up := obs.In.Has(p.up)
	down := obs.In.Has(p.down)
	switch {
	case up && !down:
		return MoveUp
	case down && !up:
		return MoveDown
	default:
		return MoveStay
	}
}
