package core

import (
	"math"
	"testing"
)

func TestVec2Ops(t *testing.T) {
	v := Vec2{X: 3, Y: 4}

	if got := v.Len(); got != 5 {
		t.Errorf("Len() = %v, expected 5", got)
	}

	sum := v.Add(Vec2{X: -1, Y: 2})
	if sum.X != 2 || sum.Y != 6 {
		t.Errorf("Add() = %+v, expected {2 6}", sum)
	}

	scaled := v.Scale(2)
	if scaled.X != 6 || scaled.Y != 8 {
		t.Errorf("Scale(2) = %+v, expected {6 8}", scaled)
	}
}

func TestFRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     FRect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewFRect(0, 0, 10, 10),
			b:        NewFRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewFRect(0, 0, 10, 10),
			b:        NewFRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewFRect(0, 0, 10, 10),
			b:        NewFRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "touching edges (no overlap)",
			a:        NewFRect(0, 0, 10, 10),
			b:        NewFRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewFRect(0, 0, 20, 20),
			b:        NewFRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewFRect(0, 0, 10, 10),
			b:        NewFRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestFRectEdges(t *testing.T) {
	r := NewFRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %v, expected 25", r.Bottom())
	}
	if r.CenterX() != 15 {
		t.Errorf("CenterX() = %v, expected 15", r.CenterX())
	}
	if r.CenterY() != 17.5 {
		t.Errorf("CenterY() = %v, expected 17.5", r.CenterY())
	}
}

func TestFRectContains(t *testing.T) {
	r := NewFRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%v, %v) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestMinMaxAbs(t *testing.T) {
	if Min(5, 10) != 5 {
		t.Error("Min(5, 10) should be 5")
	}
	if Max(5, 10) != 10 {
		t.Error("Max(5, 10) should be 10")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}

func TestVec2LenDiagonal(t *testing.T) {
	v := Vec2{X: 1, Y: 1}
	if got := v.Len(); math.Abs(got-math.Sqrt2) > 1e-9 {
		t.Errorf("Len() = %v, expected sqrt(2)", got)
	}
}
