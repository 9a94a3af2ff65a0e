package game

// Side identifies one of the two players. Player 1 defends the left wall,
// player 2 the right wall.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// String returns a short name for the side.
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Score tracks points and per-rally paddle hits for both players.
type Score struct {
	P1, P2      int
	PointsToWin int
	WinByTwo    bool

	hits [2]int
}

// NewScore creates a score tracker for a match.
func NewScore(pointsToWin int, winByTwo bool) *Score {
	return &Score{PointsToWin: pointsToWin, WinByTwo: winByTwo}
}

// Add awards a point to the given side.
func (s *Score) Add(side Side) {
	if side == SideLeft {
		s.P1++
	} else {
		s.P2++
	}
}

// AddHit counts a paddle contact for the current rally.
func (s *Score) AddHit(side Side) {
	s.hits[side]++
}

// Hits returns the paddle contacts of a side in the current rally.
func (s *Score) Hits(side Side) int {
	return s.hits[side]
}

// ResetHits clears the rally hit counters. Called after each point.
func (s *Score) ResetHits() {
	s.hits[0] = 0
	s.hits[1] = 0
}

// Winner reports whether the match is decided and by whom.
// With WinByTwo enabled a two point lead is required once both players
// are near the target, as in deuce scoring.
func (s *Score) Winner() (Side, bool) {
	lead := s.P1 - s.P2
	switch {
	case s.P1 >= s.PointsToWin && (!s.WinByTwo || lead >= 2):
		return SideLeft, true
	case s.P2 >= s.PointsToWin && (!s.WinByTwo || lead <= -2):
		return SideRight, true
	}
	return SideLeft, false
}

// Reset zeroes points and rally hits for a new game.
func (s *Score) Reset() {
	s.P1 = 0
	s.P2 = 0
	s.ResetHits()
}
