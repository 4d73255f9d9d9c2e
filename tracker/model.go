package tracker

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// state vector layout
const (
	idxXc = iota
	idxVxc
	idxYc
	idxVyc
	idxZa
	idxVza
	idxYaw
	idxVYaw
	idxR
	stateLen
)

// measurementLen is the size of the armor measurement [x, y, z, yaw]
const measurementLen = 4

// TargetState is the filter state of a tracked body: the rotation centre and
// its velocity, the yaw of the tracked armor and its rate, and the radius
// from centre to that armor
type TargetState struct {
	Xc   float64
	Vxc  float64
	Yc   float64
	Vyc  float64
	Za   float64
	Vza  float64
	Yaw  float64
	VYaw float64
	R    float64
}

func (s TargetState) vec() *mat.VecDense {
	return mat.NewVecDense(stateLen, []float64{
		s.Xc, s.Vxc, s.Yc, s.Vyc, s.Za, s.Vza, s.Yaw, s.VYaw, s.R,
	})
}

func stateFromVec(x mat.Vector) TargetState {
	return TargetState{
		Xc:   x.AtVec(idxXc),
		Vxc:  x.AtVec(idxVxc),
		Yc:   x.AtVec(idxYc),
		Vyc:  x.AtVec(idxVyc),
		Za:   x.AtVec(idxZa),
		Vza:  x.AtVec(idxVza),
		Yaw:  x.AtVec(idxYaw),
		VYaw: x.AtVec(idxVYaw),
		R:    x.AtVec(idxR),
	}
}

// newArmorModel returns the constant velocity body model observed through the
// position and yaw of one armor on its rim
func newArmorModel(p Params) Model {

	// velocity pairs integrated by the process model
	pairs := [][2]int{{idxXc, idxVxc}, {idxYc, idxVyc}, {idxZa, idxVza}, {idxYaw, idxVYaw}}

	f := func(x *mat.VecDense, dt float64) *mat.VecDense {
		out := mat.VecDenseCopyOf(x)

		for _, pr := range pairs {
			out.SetVec(pr[0], x.AtVec(pr[0])+x.AtVec(pr[1])*dt)
		}

		return out
	}

	jf := func(_ *mat.VecDense, dt float64) *mat.Dense {
		j := mat.NewDense(stateLen, stateLen, nil)

		for i := 0; i < stateLen; i++ {
			j.Set(i, i, 1)
		}

		for _, pr := range pairs {
			j.Set(pr[0], pr[1], dt)
		}

		return j
	}

	h := func(x *mat.VecDense) *mat.VecDense {
		yaw, r := x.AtVec(idxYaw), x.AtVec(idxR)

		return mat.NewVecDense(measurementLen, []float64{
			x.AtVec(idxXc) - r*math.Cos(yaw),
			x.AtVec(idxYc) - r*math.Sin(yaw),
			x.AtVec(idxZa),
			yaw,
		})
	}

	jh := func(x *mat.VecDense) *mat.Dense {
		yaw, r := x.AtVec(idxYaw), x.AtVec(idxR)
		j := mat.NewDense(measurementLen, stateLen, nil)

		j.Set(0, idxXc, 1)
		j.Set(0, idxYaw, r*math.Sin(yaw))
		j.Set(0, idxR, -math.Cos(yaw))
		j.Set(1, idxYc, 1)
		j.Set(1, idxYaw, -r*math.Cos(yaw))
		j.Set(1, idxR, -math.Sin(yaw))
		j.Set(2, idxZa, 1)
		j.Set(3, idxYaw, 1)

		return j
	}

	q := func(dt float64) *mat.Dense {
		out := mat.NewDense(stateLen, stateLen, nil)

		// piecewise white noise acceleration for each position/velocity pair
		block := func(pos, vel int, sigma2 float64) {
			out.Set(pos, pos, math.Pow(dt, 4)/4*sigma2)
			out.Set(pos, vel, math.Pow(dt, 3)/2*sigma2)
			out.Set(vel, pos, math.Pow(dt, 3)/2*sigma2)
			out.Set(vel, vel, math.Pow(dt, 2)*sigma2)
		}

		block(idxXc, idxVxc, p.SigmaQXYZ)
		block(idxYc, idxVyc, p.SigmaQXYZ)
		block(idxZa, idxVza, p.SigmaQXYZ)
		block(idxYaw, idxVYaw, p.SigmaQYaw)
		out.Set(idxR, idxR, math.Pow(dt, 4)/4*p.SigmaQR)

		return out
	}

	r := func(z *mat.VecDense) *mat.Dense {
		out := mat.NewDense(measurementLen, measurementLen, nil)

		for i := 0; i < 3; i++ {
			out.Set(i, i, math.Abs(p.RXYZFactor*z.AtVec(i)))
		}

		out.Set(3, 3, p.RYaw)

		return out
	}

	p0 := mat.NewDense(stateLen, stateLen, nil)
	for i := 0; i < stateLen; i++ {
		p0.Set(i, i, 1)
	}

	return Model{F: f, JF: jf, H: h, JH: jh, Q: q, R: r, P0: p0}
}
