package tracker

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// matricesEqual compare matrices
func matricesEqual(a, b mat.Matrix, epsilon float64) bool {
	r1, c1 := a.Dims()
	r2, c2 := b.Dims()

	if r1 != r2 || c1 != c2 {
		return false
	}

	for i := 0; i < r1; i++ {
		for j := 0; j < c1; j++ {
			if diff := a.At(i, j) - b.At(i, j); diff > epsilon || diff < -epsilon {
				return false
			}
		}
	}

	return true
}

// constantVelocity1D is a position/velocity model observed through position
func constantVelocity1D(r float64) Model {
	return Model{
		F: func(x *mat.VecDense, dt float64) *mat.VecDense {
			return mat.NewVecDense(2, []float64{x.AtVec(0) + x.AtVec(1)*dt, x.AtVec(1)})
		},
		JF: func(_ *mat.VecDense, dt float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{1, dt, 0, 1})
		},
		H: func(x *mat.VecDense) *mat.VecDense {
			return mat.NewVecDense(1, []float64{x.AtVec(0)})
		},
		JH: func(_ *mat.VecDense) *mat.Dense {
			return mat.NewDense(1, 2, []float64{1, 0})
		},
		Q: func(_ float64) *mat.Dense {
			return mat.NewDense(2, 2, nil)
		},
		R: func(_ *mat.VecDense) *mat.Dense {
			return mat.NewDense(1, 1, []float64{r})
		},
		P0: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
	}
}

func TestExtendedKalmanFilterLinear(t *testing.T) {

	kf := NewExtendedKalmanFilter(constantVelocity1D(1))
	kf.Reset(mat.NewVecDense(2, []float64{0, 1}))

	pred := kf.Predict(0.5)
	assert.Equal(t, []float64{0.5, 1}, pred.RawVector().Data)

	expectedP := mat.NewDense(2, 2, []float64{1.25, 0.5, 0.5, 1})
	assert.True(t, matricesEqual(expectedP, kf.Covariance(), 1e-12))

	post, err := kf.Update(mat.NewVecDense(1, []float64{1.5}))
	require.NoError(t, err)

	// K = [1.25, 0.5] / 2.25
	assert.InDelta(t, 0.5+1.25/2.25, post.AtVec(0), 1e-12)
	assert.InDelta(t, 1+0.5/2.25, post.AtVec(1), 1e-12)

	expectedP = mat.NewDense(2, 2, []float64{
		1.25 / 2.25, 0.5 / 2.25,
		0.5 / 2.25, 1 - 0.25/2.25,
	})
	assert.True(t, matricesEqual(expectedP, kf.Covariance(), 1e-12))
	assert.True(t, matricesEqual(post, kf.State(), 0))
}

func TestExtendedKalmanFilterSetStateKeepsCovariance(t *testing.T) {

	kf := NewExtendedKalmanFilter(constantVelocity1D(1))
	kf.Predict(1)
	before := kf.Covariance()

	kf.SetState(mat.NewVecDense(2, []float64{3, 4}))
	assert.Equal(t, []float64{3, 4}, kf.State().RawVector().Data)
	assert.True(t, matricesEqual(before, kf.Covariance(), 0))

	kf.Reset(mat.NewVecDense(2, []float64{5, 6}))
	assert.True(t, matricesEqual(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), kf.Covariance(), 0))
}

func TestExtendedKalmanFilterSingular(t *testing.T) {

	m := constantVelocity1D(0)
	m.P0 = mat.NewDense(2, 2, nil)

	kf := NewExtendedKalmanFilter(m)
	kf.Predict(0.1)

	_, err := kf.Update(mat.NewVecDense(1, []float64{1}))
	assert.True(t, errors.Is(err, ErrSingularInnovation))
}

func TestArmorModelJacobians(t *testing.T) {

	m := newArmorModel(DefaultParams())
	x := TargetState{Xc: 2, Vxc: 0.3, Yc: -1, Vyc: 0.1, Za: 0.2, Vza: 0, Yaw: 0.7, VYaw: 2, R: 0.25}.vec()

	// measurement Jacobian against central differences
	jh := m.JH(x)
	const eps = 1e-6

	for j := 0; j < stateLen; j++ {
		hi := mat.VecDenseCopyOf(x)
		lo := mat.VecDenseCopyOf(x)
		hi.SetVec(j, x.AtVec(j)+eps)
		lo.SetVec(j, x.AtVec(j)-eps)

		zh, zl := m.H(hi), m.H(lo)

		for i := 0; i < measurementLen; i++ {
			numeric := (zh.AtVec(i) - zl.AtVec(i)) / (2 * eps)
			assert.InDelta(t, numeric, jh.At(i, j), 1e-6, "dh%d/dx%d", i, j)
		}
	}

	// process model integrates each velocity
	next := stateFromVec(m.F(x, 0.1))
	assert.InDelta(t, 2.03, next.Xc, 1e-12)
	assert.InDelta(t, -0.99, next.Yc, 1e-12)
	assert.InDelta(t, 0.9, next.Yaw, 1e-12)
	assert.InDelta(t, 0.25, next.R, 1e-12)

	// process noise is symmetric
	q := m.Q(0.01)
	assert.True(t, matricesEqual(q, q.T(), 0))
	assert.InDelta(t, math.Pow(0.01, 4)/4*800, q.At(idxR, idxR), 1e-18)

	// measurement noise scales with distance
	r := m.R(mat.NewVecDense(4, []float64{2, -4, 0.5, 1}))
	assert.InDelta(t, 0.1, r.At(0, 0), 1e-12)
	assert.InDelta(t, 0.2, r.At(1, 1), 1e-12)
	assert.InDelta(t, 0.025, r.At(2, 2), 1e-12)
	assert.InDelta(t, 0.02, r.At(3, 3), 1e-12)
}
