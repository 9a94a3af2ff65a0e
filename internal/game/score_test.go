package game

import "testing"

func TestScoreWinner(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   int
		winByTwo bool
		want     Side
		over     bool
	}{
		{"game in progress", 5, 3, false, SideLeft, false},
		{"player 1 reaches target", 11, 4, false, SideLeft, true},
		{"player 2 reaches target", 9, 11, false, SideRight, true},
		{"one short of target", 10, 9, false, SideLeft, false},
		{"deuce needs two point lead", 11, 10, true, SideLeft, false},
		{"deuce resolved", 12, 10, true, SideLeft, true},
		{"deuce resolved for player 2", 13, 15, true, SideRight, true},
		{"long deuce still open", 14, 13, true, SideLeft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScore(11, tt.winByTwo)
			s.P1 = tt.p1
			s.P2 = tt.p2

			winner, over := s.Winner()
			if over != tt.over {
				t.Fatalf("Winner() over = %v, expected %v", over, tt.over)
			}
			if over && winner != tt.want {
				t.Errorf("Winner() = %v, expected %v", winner, tt.want)
			}
		})
	}
}

func TestScoreAdd(t *testing.T) {
	s := NewScore(11, false)
	s.Add(SideLeft)
	s.Add(SideLeft)
	s.Add(SideRight)

	if s.P1 != 2 || s.P2 != 1 {
		t.Errorf("score = %d-%d, expected 2-1", s.P1, s.P2)
	}
}

func TestScoreHits(t *testing.T) {
	s := NewScore(11, false)
	s.AddHit(SideLeft)
	s.AddHit(SideLeft)
	s.AddHit(SideRight)

	if s.Hits(SideLeft) != 2 || s.Hits(SideRight) != 1 {
		t.Errorf("hits = (%d, %d), expected (2, 1)", s.Hits(SideLeft), s.Hits(SideRight))
	}

	s.ResetHits()
	if s.Hits(SideLeft) != 0 || s.Hits(SideRight) != 0 {
		t.Error("hits should be zero after ResetHits")
	}
}

func TestScoreReset(t *testing.T) {
	s := NewScore(11, false)
	s.Add(SideLeft)
	s.AddHit(SideRight)
	s.Reset()

	if s.P1 != 0 || s.P2 != 0 || s.Hits(SideRight) != 0 {
		t.Errorf("score = %d-%d hits %d, expected all zero after Reset", s.P1, s.P2, s.Hits(SideRight))
	}
}

func TestSideOther(t *testing.T) {
	if SideLeft.Other() != SideRight {
		t.Error("SideLeft.Other() should be SideRight")
	}
	if SideRight.Other() != SideLeft {
		t.Error("SideRight.Other() should be SideLeft")
	}
	if SideLeft.String() != "left" || SideRight.String() != "right" {
		t.Errorf("Side names = (%s, %s), expected (left, right)", SideLeft, SideRight)
	}
}
