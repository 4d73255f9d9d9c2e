package tracker

import (
	"math"
	"slices"

	"github.com/swdee/go-autoaim/geometry"
	"github.com/swdee/go-autoaim/logger"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tracker follows a single spinning target body through its armor plates.
// It is not safe for concurrent use, Init and Update must be called from one
// goroutine in frame order.
type Tracker struct {
	params    Params
	lifecycle lifecycle
	ekf       *ExtendedKalmanFilter

	trackedID    string
	trackedArmor Armor
	armorsNum    ArmorsNum

	target TargetState
	// dz is the height of the other armor ring relative to the tracked one
	dz float64
	// anotherR is the radius of the other armor pair of a four armor body
	anotherR float64
	// lastYaw is the last armor yaw fed to the filter, used to unwrap the
	// next one
	lastYaw float64

	info TrackerInfo
}

// NewTracker returns a tracker in the Lost state
func NewTracker(p Params) (*Tracker, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Tracker{
		params:    p,
		lifecycle: lifecycle{state: Lost, trackingThres: p.TrackingThres},
		ekf:       NewExtendedKalmanFilter(newArmorModel(p)),
		armorsNum: Normal4,
	}, nil
}

// SetLostThreshold sets how many consecutive unmatched frames a tracked
// target survives
func (t *Tracker) SetLostThreshold(frames int) {
	t.lifecycle.lostThres = frames
}

// State returns the lifecycle state
func (t *Tracker) State() State {
	return t.lifecycle.state
}

// TrackedID returns the number of the armor being tracked
func (t *Tracker) TrackedID() string {
	return t.trackedID
}

// TrackedArmor returns the armor last associated with the target
func (t *Tracker) TrackedArmor() Armor {
	return t.trackedArmor
}

// ArmorsNum returns the number of armors on the tracked body
func (t *Tracker) ArmorsNum() ArmorsNum {
	return t.armorsNum
}

// TargetState returns the current state estimate
func (t *Tracker) TargetState() TargetState {
	return t.target
}

// Dz returns the height of the other armor ring relative to the tracked one
func (t *Tracker) Dz() float64 {
	return t.dz
}

// AnotherR returns the radius of the other armor pair
func (t *Tracker) AnotherR() float64 {
	return t.anotherR
}

// Info returns the diagnostics of the last Update
func (t *Tracker) Info() TrackerInfo {
	return t.info
}

// Target returns the published form of the current estimate
func (t *Tracker) Target() Target {
	s := t.target

	return Target{
		Tracking:  t.lifecycle.state == Tracking || t.lifecycle.state == TempLost,
		ID:        t.trackedID,
		ArmorsNum: t.armorsNum,
		Position:  r3.Vec{X: s.Xc, Y: s.Yc, Z: s.Za},
		Velocity:  r3.Vec{X: s.Vxc, Y: s.Vyc, Z: s.Vza},
		Yaw:       s.Yaw,
		VYaw:      s.VYaw,
		Radius1:   s.R,
		Radius2:   t.anotherR,
		Dz:        t.dz,
	}
}

// Init acquires the armor closest to the image centre as a new target.  An
// empty list leaves the tracker unchanged.
func (t *Tracker) Init(armors []Armor) {

	if len(armors) == 0 {
		return
	}

	best := armors[0]

	for _, a := range armors[1:] {
		if a.DistanceToImageCenter < best.DistanceToImageCenter {
			best = a
		}
	}

	t.initEKF(best)

	t.trackedID = best.Number
	t.trackedArmor = best
	t.lifecycle.acquire()
	t.updateArmorsNum(best)
	t.info = TrackerInfo{}

	logger.Logger.Debugw("target acquired", "id", t.trackedID,
		"armors_num", t.armorsNum.String())
}

// initEKF places the rotation centre InitRadius behind the armor along its
// yaw and resets the filter to it
func (t *Tracker) initEKF(a Armor) {

	t.lastYaw = 0
	yaw := t.commitYaw(a.Orientation)
	r := t.params.InitRadius

	t.target = TargetState{
		Xc:  a.Position.X + r*math.Cos(yaw),
		Yc:  a.Position.Y + r*math.Sin(yaw),
		Za:  a.Position.Z,
		Yaw: yaw,
		R:   r,
	}
	t.dz = 0
	t.anotherR = r

	t.ekf.Reset(t.target.vec())
}

// Update runs one predict, associate, correct cycle for a frame dt seconds
// after the previous one and advances the lifecycle
func (t *Tracker) Update(armors []Armor, dt float64) {

	predicted := stateFromVec(t.ekf.Predict(dt))
	t.target = predicted

	t.info = TrackerInfo{PositionDiff: math.MaxFloat64, YawDiff: math.MaxFloat64}
	matched := false

	var (
		candidate Armor
		sameID    int
	)

	predictedPos := armorPosition(predicted)

	for _, a := range armors {
		if a.Number != t.trackedID {
			continue
		}

		sameID++
		diff := r3.Norm(r3.Sub(a.Position, predictedPos))

		if diff < t.info.PositionDiff {
			t.info.PositionDiff = diff
			t.info.YawDiff = math.Abs(t.unwrappedYaw(a.Orientation) - predicted.Yaw)
			candidate = a
		}
	}

	switch {
	case sameID > 0 && t.info.PositionDiff < t.params.MaxMatchDistance &&
		t.info.YawDiff < t.params.MaxMatchYawDiff:

		matched = t.correct(candidate)

	case sameID == 1 && t.info.YawDiff > t.params.MaxMatchYawDiff:
		t.handleArmorJump(candidate)

	default:
		logger.Logger.Debugw("no armor matched", "id", t.trackedID,
			"candidates", sameID, "position_diff", t.info.PositionDiff,
			"yaw_diff", t.info.YawDiff)
	}

	// keep the radius physical, feeding any change back into the filter
	if r := clamp(t.target.R, t.params.MinRadius, t.params.MaxRadius); r != t.target.R {
		t.target.R = r
		t.ekf.SetState(t.target.vec())
	}

	prev := t.lifecycle.state

	if next := t.lifecycle.step(matched); next != prev {
		logger.Logger.Debugw("tracker state changed", "id", t.trackedID,
			"from", prev.String(), "to", next.String())
	}
}

// correct fuses the matched armor into the filter
func (t *Tracker) correct(a Armor) bool {

	yaw := t.commitYaw(a.Orientation)
	z := mat.NewVecDense(measurementLen, []float64{
		a.Position.X, a.Position.Y, a.Position.Z, yaw,
	})

	post, err := t.ekf.Update(z)

	if err != nil {
		logger.Logger.Warnw("filter update failed, using prediction",
			"id", t.trackedID, "error", err)
		return false
	}

	t.target = stateFromVec(post)
	t.trackedArmor = a

	return true
}

// handleArmorJump re-anchors the target on an armor that appeared at a yaw
// too far from the prediction, which happens when a spinning body turns a new
// face towards the camera
func (t *Tracker) handleArmorJump(a Armor) {

	yaw := t.commitYaw(a.Orientation)
	t.target.Yaw = yaw
	t.updateArmorsNum(a)
	t.info.Jumped = true

	// four armor bodies carry two rings of different radius and height
	if t.armorsNum == Normal4 {
		t.dz = t.target.Za - a.Position.Z
		t.target.Za = a.Position.Z
		t.target.R, t.anotherR = t.anotherR, t.target.R
	}

	inferred := armorPosition(t.target)

	if r3.Norm(r3.Sub(a.Position, inferred)) > t.params.MaxMatchDistance {
		r := t.target.R

		t.target.Xc = a.Position.X + r*math.Cos(yaw)
		t.target.Vxc = 0
		t.target.Yc = a.Position.Y + r*math.Sin(yaw)
		t.target.Vyc = 0
		t.target.Za = a.Position.Z
		t.target.Vza = 0
		t.info.Diverged = true

		logger.Logger.Warnw("state diverged on armor jump, reset centre",
			"id", t.trackedID, "yaw", yaw)
	} else {
		logger.Logger.Debugw("armor jump", "id", t.trackedID, "yaw", yaw)
	}

	t.trackedArmor = a
	t.ekf.SetState(t.target.vec())
}

// updateArmorsNum classifies the target body by the armor seen on it
func (t *Tracker) updateArmorsNum(a Armor) {

	switch {
	case a.Type == ArmorLarge && slices.Contains(t.params.BalanceNumbers, t.trackedID):
		t.armorsNum = Balance2
	case t.trackedID == "outpost":
		t.armorsNum = Outpost3
	default:
		t.armorsNum = Normal4
	}
}

// unwrappedYaw returns the armor yaw continued from the last consumed yaw
func (t *Tracker) unwrappedYaw(q quat.Number) float64 {
	return geometry.Unwrap(t.lastYaw, geometry.QuaternionToYaw(q))
}

// commitYaw returns the unwrapped armor yaw and makes it the reference for
// the next one
func (t *Tracker) commitYaw(q quat.Number) float64 {
	t.lastYaw = t.unwrappedYaw(q)
	return t.lastYaw
}

// armorPosition returns where the tracked armor sits for state s
func armorPosition(s TargetState) r3.Vec {
	return r3.Vec{
		X: s.Xc - s.R*math.Cos(s.Yaw),
		Y: s.Yc - s.R*math.Sin(s.Yaw),
		Z: s.Za,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
