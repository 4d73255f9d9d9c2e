package geometry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// RangedAngleRad normalises angle into the range (-Pi, Pi]
func RangedAngleRad(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)

	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}

	return a
}

// ShortestAngularDistance returns the signed rotation in (-Pi, Pi] that takes
// angle from to angle to
func ShortestAngularDistance(from, to float64) float64 {
	return RangedAngleRad(RangedAngleRad(to) - RangedAngleRad(from))
}

// Unwrap returns the angle equivalent to angle that lies closest to last, so
// a sequence of wrapped angles becomes continuous
func Unwrap(last, angle float64) float64 {
	return last + ShortestAngularDistance(last, angle)
}

// QuaternionToYaw extracts the rotation about the plate normal from an
// orientation quaternion as atan2(2(wx+yz), 1-2(x²+y²)), wrapped to (-Pi, Pi]
func QuaternionToYaw(q quat.Number) float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
}
