package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTetragonArea(t *testing.T) {

	square := [4]Point{{0, 0}, {4, 0}, {4, 3}, {0, 3}}
	assert.InDelta(t, 12.0, TetragonArea(square), 1e-9)

	// corner order around the perimeter in the other direction
	reversed := [4]Point{{0, 3}, {4, 3}, {4, 0}, {0, 0}}
	assert.InDelta(t, 12.0, TetragonArea(reversed), 1e-9)

	assert.InDelta(t, 0.5, TriangleArea(Point{0, 0}, Point{1, 0}, Point{0, 1}), 1e-9)
	assert.Zero(t, TriangleArea(Point{0, 0}, Point{1, 1}, Point{2, 2}))
}

func TestRangedAngleRad(t *testing.T) {

	tests := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{0.25 + 4*math.Pi, 0.25},
	}

	for _, tc := range tests {
		assert.InDelta(t, tc.expected, RangedAngleRad(tc.in), 1e-9, "input %f", tc.in)
	}
}

func TestShortestAngularDistance(t *testing.T) {

	assert.InDelta(t, 0.2, ShortestAngularDistance(math.Pi-0.1, -math.Pi+0.1), 1e-9)
	assert.InDelta(t, -0.2, ShortestAngularDistance(-math.Pi+0.1, math.Pi-0.1), 1e-9)
	assert.InDelta(t, 0.5, ShortestAngularDistance(10*math.Pi, 10*math.Pi+0.5), 1e-9)
}

func TestUnwrapAcrossBoundary(t *testing.T) {

	last := 0.0

	// wrapped input stepping forward by 0.3 rad across the +Pi/-Pi seam
	for i := 0; i < 30; i++ {
		wrapped := RangedAngleRad(float64(i) * 0.3)
		next := Unwrap(last, wrapped)

		if i > 0 {
			assert.InDelta(t, 0.3, next-last, 1e-9, "step %d", i)
		}

		last = next
	}

	assert.InDelta(t, 29*0.3, last, 1e-9)
}

func TestQuaternionToYaw(t *testing.T) {

	for _, angle := range []float64{0, 0.5, -1.2, 3.0} {
		// rotation about the x axis
		q := quat.Number{Real: math.Cos(angle / 2), Imag: math.Sin(angle / 2)}
		assert.InDelta(t, angle, QuaternionToYaw(q), 1e-9)
	}
}

func TestEulerRotationMatrixRoundTrip(t *testing.T) {

	e := r3.Vec{X: 0.1, Y: -0.4, Z: 2.5}
	m := EulerToRotationMatrix(e)
	got := RotationMatrixToEuler(m)

	assert.InDelta(t, e.X, got.X, 1e-9)
	assert.InDelta(t, e.Y, got.Y, 1e-9)
	assert.InDelta(t, e.Z, got.Z, 1e-9)

	// yaw only rotates x onto y
	m = EulerToRotationMatrix(r3.Vec{Z: math.Pi / 2})
	assert.InDelta(t, 0.0, m.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-9)
}

func TestCalcDeltaEuler(t *testing.T) {

	d := CalcDeltaEuler(r3.Vec{X: 0.1, Y: 3.0, Z: -3.0}, r3.Vec{X: 0.3, Y: -3.0, Z: 3.0})

	assert.InDelta(t, 0.2, d.X, 1e-9)
	assert.InDelta(t, 2*math.Pi-6.0, d.Y, 1e-9)
	assert.InDelta(t, -(2*math.Pi - 6.0), d.Z, 1e-9)
}

func TestEulerToAngleAxis(t *testing.T) {

	axis, angle := EulerToAngleAxis(r3.Vec{Z: 0.7})
	assert.InDelta(t, 0.7, angle, 1e-9)
	assert.InDelta(t, 1.0, axis.Z, 1e-9)

	axis, angle = EulerToAngleAxis(r3.Vec{X: -0.3})
	assert.InDelta(t, 0.3, angle, 1e-9)
	assert.InDelta(t, -1.0, axis.X, 1e-9)

	axis, angle = EulerToAngleAxis(r3.Vec{})
	assert.Zero(t, angle)
	assert.Equal(t, r3.Vec{X: 1}, axis)
}
