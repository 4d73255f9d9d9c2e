package geometry

import "math"

// Point is a 2D point in image space
type Point struct {
	X float64
	Y float64
}

// Add returns the component wise sum of p and q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p multiplied by f
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// TriangleArea returns the unsigned area of the triangle abc
func TriangleArea(a, b, c Point) float64 {
	cross := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	return math.Abs(cross) / 2
}

// TetragonArea returns the area of the quadrilateral q by splitting it along
// the diagonal between corners 0 and 2.  Corners must be given in order
// around the perimeter.
func TetragonArea(q [4]Point) float64 {
	return TriangleArea(q[0], q[1], q[2]) + TriangleArea(q[0], q[2], q[3])
}
