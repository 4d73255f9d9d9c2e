package postprocess

import (
	"math"

	"github.com/swdee/go-autoaim/geometry"
	"gonum.org/v1/gonum/mat"
)

// argmax returns the index of the largest value, the first on ties
func argmax(values []float32) int {

	best := 0

	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	return best
}

// calculateOverlap works out the Intersection over Union (IoU) of two boxes
func calculateOverlap(a, b Rect) float64 {

	w := math.Max(0, math.Min(a.Right, b.Right)-math.Max(a.Left, b.Left))
	h := math.Max(0, math.Min(a.Bottom, b.Bottom)-math.Max(a.Top, b.Top))
	intersection := w * h

	union := a.Area() + b.Area() - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}

// applyTransform maps the point (x, y) through the 3x3 affine matrix m
func applyTransform(m mat.Matrix, x, y float64) geometry.Point {
	return geometry.Point{
		X: m.At(0, 0)*x + m.At(0, 1)*y + m.At(0, 2),
		Y: m.At(1, 0)*x + m.At(1, 1)*y + m.At(1, 2),
	}
}
