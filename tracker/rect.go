package tracker

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point represents x,y coordinates, either in image pixels or in real world
// meters depending on where it came from
type Point struct {
	X, Y float64
}

// IsFinite returns true if neither coordinate is NaN or infinite
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Rect represents a bounding box in (x1, y1, x2, y2) format, being the
// top-left and bottom-right corners
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// NewRect creates a new Rect from its corner coordinates
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the width of the rectangle
func (r Rect) Width() float64 {
	return r.X2 - r.X1
}

// Height returns the height of the rectangle
func (r Rect) Height() float64 {
	return r.Y2 - r.Y1
}

// Center returns the center point of the rectangle
func (r Rect) Center() Point {
	return Point{
		X: (r.X1 + r.X2) / 2,
		Y: (r.Y1 + r.Y2) / 2,
	}
}

// Foot returns the bottom-center of the rectangle which is where a person
// standing in the box touches the ground
func (r Rect) Foot() Point {
	return FootPosition(r)
}

// FootPosition returns the bottom-center point of the bounding box
func FootPosition(r Rect) Point {
	return Point{
		X: (r.X1 + r.X2) / 2,
		Y: r.Y2,
	}
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}
