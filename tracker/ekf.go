package tracker

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSingularInnovation is returned by Update when the innovation covariance
// cannot be inverted
var ErrSingularInnovation = errors.New("singular innovation covariance")

// ProcessFunc advances state x by dt seconds
type ProcessFunc func(x *mat.VecDense, dt float64) *mat.VecDense

// ProcessJacobianFunc returns the Jacobian of the process function at x
type ProcessJacobianFunc func(x *mat.VecDense, dt float64) *mat.Dense

// MeasurementFunc maps state x into measurement space
type MeasurementFunc func(x *mat.VecDense) *mat.VecDense

// MeasurementJacobianFunc returns the Jacobian of the measurement function at x
type MeasurementJacobianFunc func(x *mat.VecDense) *mat.Dense

// ProcessNoiseFunc returns the process noise covariance for a step of dt
type ProcessNoiseFunc func(dt float64) *mat.Dense

// MeasurementNoiseFunc returns the measurement noise covariance for z
type MeasurementNoiseFunc func(z *mat.VecDense) *mat.Dense

// Model holds the functions and initial covariance describing a system for
// the ExtendedKalmanFilter
type Model struct {
	F  ProcessFunc
	JF ProcessJacobianFunc
	H  MeasurementFunc
	JH MeasurementJacobianFunc
	Q  ProcessNoiseFunc
	R  MeasurementNoiseFunc
	// P0 is the covariance the filter starts from and returns to on Reset
	P0 *mat.Dense
}

// ExtendedKalmanFilter is a Kalman filter for non linear process and
// measurement models, linearised about the current estimate at each step
type ExtendedKalmanFilter struct {
	model    Model
	n        int
	identity *mat.Dense
	// priori and posteriori state estimates
	xPri  *mat.VecDense
	xPost *mat.VecDense
	// priori and posteriori error covariances
	pPri  *mat.Dense
	pPost *mat.Dense
}

// NewExtendedKalmanFilter returns a filter for the given model with a zero
// state
func NewExtendedKalmanFilter(m Model) *ExtendedKalmanFilter {

	n, _ := m.P0.Dims()

	identity := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		identity.Set(i, i, 1)
	}

	kf := &ExtendedKalmanFilter{
		model:    m,
		n:        n,
		identity: identity,
	}

	kf.Reset(mat.NewVecDense(n, nil))

	return kf
}

// Reset sets the state to x and the covariance back to P0
func (kf *ExtendedKalmanFilter) Reset(x *mat.VecDense) {
	kf.xPost = mat.VecDenseCopyOf(x)
	kf.xPri = mat.VecDenseCopyOf(x)
	kf.pPost = mat.DenseCopyOf(kf.model.P0)
	kf.pPri = mat.DenseCopyOf(kf.model.P0)
}

// SetState overwrites the posteriori state, leaving the covariance untouched
func (kf *ExtendedKalmanFilter) SetState(x *mat.VecDense) {
	kf.xPost = mat.VecDenseCopyOf(x)
}

// State returns a copy of the current posteriori state
func (kf *ExtendedKalmanFilter) State() *mat.VecDense {
	return mat.VecDenseCopyOf(kf.xPost)
}

// Covariance returns a copy of the current posteriori covariance
func (kf *ExtendedKalmanFilter) Covariance() *mat.Dense {
	return mat.DenseCopyOf(kf.pPost)
}

// Predict advances the estimate by dt seconds and returns the predicted state.
// Until the next Update the prediction is also the posteriori estimate.
func (kf *ExtendedKalmanFilter) Predict(dt float64) *mat.VecDense {

	f := kf.model.JF(kf.xPost, dt)
	kf.xPri = kf.model.F(kf.xPost, dt)

	// P = F * P * F' + Q
	var fp mat.Dense
	fp.Mul(f, kf.pPost)

	pPri := mat.NewDense(kf.n, kf.n, nil)
	pPri.Mul(&fp, f.T())
	pPri.Add(pPri, kf.model.Q(dt))
	kf.pPri = pPri

	kf.xPost = mat.VecDenseCopyOf(kf.xPri)
	kf.pPost = mat.DenseCopyOf(kf.pPri)

	return mat.VecDenseCopyOf(kf.xPri)
}

// Update corrects the prediction with measurement z and returns the
// posteriori state
func (kf *ExtendedKalmanFilter) Update(z *mat.VecDense) (*mat.VecDense, error) {

	h := kf.model.JH(kf.xPri)
	m, _ := h.Dims()

	// innovation covariance S = H * P * H' + R
	var pht mat.Dense
	pht.Mul(kf.pPri, h.T())

	s := mat.NewDense(m, m, nil)
	s.Mul(h, &pht)
	s.Add(s, kf.model.R(z))

	var sInv mat.Dense
	if err := sInv.Inverse(s); err != nil {
		return nil, errors.Wrapf(ErrSingularInnovation, "%v", err)
	}

	// gain K = P * H' * S^-1
	var k mat.Dense
	k.Mul(&pht, &sInv)

	residual := mat.NewVecDense(m, nil)
	residual.SubVec(z, kf.model.H(kf.xPri))

	var correction mat.VecDense
	correction.MulVec(&k, residual)

	xPost := mat.NewVecDense(kf.n, nil)
	xPost.AddVec(kf.xPri, &correction)
	kf.xPost = xPost

	// P = (I - K * H) * P
	var kh mat.Dense
	kh.Mul(&k, h)

	var ikh mat.Dense
	ikh.Sub(kf.identity, &kh)

	pPost := mat.NewDense(kf.n, kf.n, nil)
	pPost.Mul(&ikh, kf.pPri)
	kf.pPost = pPost

	return mat.VecDenseCopyOf(kf.xPost), nil
}
