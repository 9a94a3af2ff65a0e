// Package core provides fundamental types shared by the game logic and the
// terminal platform. It contains no external dependencies (especially no
// Bubble Tea) to keep the simulation pure and testable.
package core

import "math"

// Vec2 is a 2D vector in continuous field units.
// Used for ball position and velocity.
type Vec2 struct {
	X, Y float64
}

// Add returns the sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns the vector multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the vector magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// FRect is an axis-aligned bounding box in continuous field units.
// The simulation runs in field space; Rect below covers screen space.
type FRect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewFRect creates a new field-space rectangle.
func NewFRect(x, y, w, h float64) FRect {
	return FRect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r FRect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r FRect) Bottom() float64 {
	return r.Y + r.H
}

// CenterX returns the x-coordinate of the rectangle center.
func (r FRect) CenterX() float64 {
	return r.X + r.W/2
}

// CenterY returns the y-coordinate of the rectangle center.
func (r FRect) CenterY() float64 {
	return r.Y + r.H/2
}

// Intersects returns true if this rectangle overlaps with another.
// Uses standard AABB collision detection.
func (r FRect) Intersects(other FRect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r FRect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Rect is an axis-aligned bounding box in screen cells.
// Used by Screen drawing operations.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new screen-space rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
