package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// singularThreshold is the magnitude of cos(pitch) below which a rotation
// matrix is treated as being in gimbal lock
const singularThreshold = 1e-6

// EulerToRotationMatrix builds the rotation matrix R = Rz * Ry * Rx from the
// euler angles e, where e.X is roll, e.Y pitch and e.Z yaw in radians
func EulerToRotationMatrix(e r3.Vec) *mat.Dense {

	cx, sx := math.Cos(e.X), math.Sin(e.X)
	cy, sy := math.Cos(e.Y), math.Sin(e.Y)
	cz, sz := math.Cos(e.Z), math.Sin(e.Z)

	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cx, -sx,
		0, sx, cx,
	})
	ry := mat.NewDense(3, 3, []float64{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	})
	rz := mat.NewDense(3, 3, []float64{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	})

	var r mat.Dense
	r.Mul(rz, ry)
	r.Mul(&r, rx)

	return &r
}

// RotationMatrixToEuler is the inverse of EulerToRotationMatrix.  In gimbal
// lock the yaw component is reported as zero and the rotation folded into roll.
func RotationMatrixToEuler(m mat.Matrix) r3.Vec {

	sy := math.Hypot(m.At(0, 0), m.At(1, 0))

	if sy < singularThreshold {
		return r3.Vec{
			X: math.Atan2(-m.At(1, 2), m.At(1, 1)),
			Y: math.Atan2(-m.At(2, 0), sy),
			Z: 0,
		}
	}

	return r3.Vec{
		X: math.Atan2(m.At(2, 1), m.At(2, 2)),
		Y: math.Atan2(-m.At(2, 0), sy),
		Z: math.Atan2(m.At(1, 0), m.At(0, 0)),
	}
}

// CalcDeltaEuler returns the per axis shortest rotation taking euler angles
// from to euler angles to
func CalcDeltaEuler(from, to r3.Vec) r3.Vec {
	return r3.Vec{
		X: ShortestAngularDistance(from.X, to.X),
		Y: ShortestAngularDistance(from.Y, to.Y),
		Z: ShortestAngularDistance(from.Z, to.Z),
	}
}

// EulerToQuaternion returns the unit quaternion for the rotation Rz * Ry * Rx
func EulerToQuaternion(e r3.Vec) quat.Number {

	half := func(axis r3.Vec, angle float64) quat.Number {
		s := math.Sin(angle / 2)
		return quat.Number{
			Real: math.Cos(angle / 2),
			Imag: axis.X * s,
			Jmag: axis.Y * s,
			Kmag: axis.Z * s,
		}
	}

	qx := half(r3.Vec{X: 1}, e.X)
	qy := half(r3.Vec{Y: 1}, e.Y)
	qz := half(r3.Vec{Z: 1}, e.Z)

	return quat.Mul(quat.Mul(qz, qy), qx)
}

// EulerToAngleAxis converts euler angles into a unit rotation axis and the
// angle of rotation about it in [0, Pi].  A zero rotation returns the X axis.
func EulerToAngleAxis(e r3.Vec) (r3.Vec, float64) {

	q := EulerToQuaternion(e)

	// keep the scalar part positive so the angle stays within [0, Pi]
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}

	v := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	n := r3.Norm(v)

	if n < singularThreshold {
		return r3.Vec{X: 1}, 0
	}

	angle := 2 * math.Atan2(n, q.Real)

	return r3.Scale(1/n, v), angle
}
