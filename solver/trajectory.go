// Package solver computes the gimbal pitch and yaw needed to hit a tracked
// target, compensating for projectile drop under air drag, flight time and
// the rotation of the target body.
package solver

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-autoaim/geometry"
	"github.com/swdee/go-autoaim/tracker"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidParams is returned by Params.Validate
var ErrInvalidParams = errors.New("invalid trajectory parameters")

// Params are the ballistic constants and mounting offsets of the launcher
type Params struct {
	// K is the single direction air resistance coefficient
	K float64 `yaml:"k"`
	// Gravity is the local gravitational acceleration
	Gravity float64 `yaml:"gravity"`
	// FlyTime is the nominal projectile flight time used to lead the target
	FlyTime time.Duration `yaml:"fly_time"`
	// BiasTime is the fixed system latency between capture and firing
	BiasTime time.Duration `yaml:"bias_time"`
	// SBias is the distance from the yaw axis forward to the muzzle
	SBias float64 `yaml:"s_bias"`
	// ZBias is the height of the yaw axis above the muzzle
	ZBias float64 `yaml:"z_bias"`
	// MaxIterations bounds the pitch refinement loop
	MaxIterations int `yaml:"max_iterations"`
	// Tolerance is the height step below which pitch refinement stops
	Tolerance float64 `yaml:"tolerance"`
	// Gain is the fraction of the height error applied each iteration
	Gain float64 `yaml:"gain"`
	// InitialSpeed is the muzzle speed used until a measurement arrives
	InitialSpeed float64 `yaml:"initial_speed"`
}

// DefaultParams returns the constants for a 17mm launcher
func DefaultParams() Params {
	return Params{
		K:             0.092,
		Gravity:       9.78,
		FlyTime:       500 * time.Millisecond,
		BiasTime:      100 * time.Millisecond,
		SBias:         0.19133,
		ZBias:         0.21265,
		MaxIterations: 20,
		Tolerance:     1e-5,
		Gain:          0.3,
		InitialSpeed:  25,
	}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {

	if p.K < 0 || p.Gravity <= 0 {
		return errors.Wrapf(ErrInvalidParams, "k %v, gravity %v", p.K, p.Gravity)
	}

	if p.MaxIterations <= 0 || p.Tolerance <= 0 || p.Gain <= 0 || p.Gain > 1 {
		return errors.Wrapf(ErrInvalidParams, "iterations %d, tolerance %v, gain %v",
			p.MaxIterations, p.Tolerance, p.Gain)
	}

	if p.FlyTime < 0 || p.BiasTime < 0 || p.InitialSpeed < 0 {
		return errors.Wrap(ErrInvalidParams, "negative time or speed")
	}

	return nil
}

// Aim is the firing solution for one target
type Aim struct {
	// Pitch is the elevation of the launcher in radians, positive upwards
	Pitch float64
	// Yaw is the azimuth of the launcher in radians
	Yaw float64
	// Point is the predicted armor position aimed at
	Point r3.Vec
	// Face is the index of the chosen armor around the body
	Face int
}

// SolveTrajectory solves firing solutions.  The muzzle speed is the only
// state it holds.
type SolveTrajectory struct {
	params Params
	speed  float64
}

// NewSolveTrajectory returns a solver using the given parameters
func NewSolveTrajectory(p Params) (*SolveTrajectory, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &SolveTrajectory{params: p, speed: p.InitialSpeed}, nil
}

// SetSpeed updates the measured muzzle speed
func (s *SolveTrajectory) SetSpeed(v float64) {
	s.speed = v
}

// Speed returns the muzzle speed in use
func (s *SolveTrajectory) Speed() float64 {
	return s.speed
}

// MonoDirectionalAirResistance returns the height z reached after travelling
// horizontal distance dist when launched at speed v and angle, together with
// the flight time.  ok is false when the target cannot be reached.
func (s *SolveTrajectory) MonoDirectionalAirResistance(dist, v, angle float64) (z, t float64, ok bool) {

	horizontal := v * math.Cos(angle)

	if s.params.K == 0 {
		t = dist / horizontal
	} else {
		t = (math.Exp(s.params.K*dist) - 1) / (s.params.K * horizontal)
	}

	if t <= 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return 0, 0, false
	}

	z = v*math.Sin(angle)*t - s.params.Gravity*t*t/2

	return z, t, true
}

// PitchCompensation returns the launch angle that lands a projectile of speed
// v at height z after horizontal distance dist.  When the iteration budget
// runs out the last estimate is returned, and when the model cannot be
// evaluated the line of sight angle is.
func (s *SolveTrajectory) PitchCompensation(dist, z, v float64) float64 {

	angle := math.Atan2(z, dist)

	if v <= 0 || dist <= 0 {
		return angle
	}

	aim := z

	for i := 0; i < s.params.MaxIterations; i++ {
		angle = math.Atan2(aim, dist)

		actual, _, ok := s.MonoDirectionalAirResistance(dist, v, angle)

		if !ok {
			return math.Atan2(z, dist)
		}

		step := s.params.Gain * (z - actual)
		aim += step

		if math.Abs(step) < s.params.Tolerance {
			break
		}
	}

	return angle
}

// Solve returns the firing solution for target.  The body is advanced by the
// latency and nominal flight time, each armor position around it is
// enumerated for the body's topology, and the armor facing the launcher most
// squarely is aimed at.
func (s *SolveTrajectory) Solve(target tracker.Target) Aim {

	delay := (s.params.BiasTime + s.params.FlyTime).Seconds()
	yaw := target.Yaw + target.VYaw*delay

	faces := armorFaces(target, yaw)

	// the armor facing the launcher has its yaw closest to the line of sight
	// towards the centre
	sight := math.Atan2(target.Position.Y, target.Position.X)
	best := 0

	for i := range faces {
		if math.Abs(geometry.ShortestAngularDistance(sight, faces[i].yaw)) <
			math.Abs(geometry.ShortestAngularDistance(sight, faces[best].yaw)) {
			best = i
		}
	}

	point := r3.Add(faces[best].pos, r3.Scale(delay, target.Velocity))

	return Aim{
		Pitch: s.PitchCompensation(math.Hypot(point.X, point.Y)-s.params.SBias,
			point.Z+s.params.ZBias, s.speed),
		Yaw:   math.Atan2(point.Y, point.X),
		Point: point,
		Face:  best,
	}
}

// face is one armor position around a body
type face struct {
	yaw float64
	pos r3.Vec
}

// armorFaces lists the armors of target when the tracked armor is at yaw
func armorFaces(target tracker.Target, yaw float64) []face {

	c := target.Position

	place := func(yaw, r, z float64) face {
		return face{
			yaw: yaw,
			pos: r3.Vec{X: c.X - r*math.Cos(yaw), Y: c.Y - r*math.Sin(yaw), Z: z},
		}
	}

	switch target.ArmorsNum {
	case tracker.Balance2:
		faces := make([]face, 2)
		for i := range faces {
			faces[i] = place(yaw+float64(i)*math.Pi, target.Radius1, c.Z)
		}
		return faces

	case tracker.Outpost3:
		r := (target.Radius1 + target.Radius2) / 2
		faces := make([]face, 3)
		for i := range faces {
			faces[i] = place(yaw+float64(i)*2*math.Pi/3, r, c.Z)
		}
		return faces
	}

	// four armors alternate between the tracked ring and the other one
	faces := make([]face, 4)
	for i := range faces {
		r, z := target.Radius1, c.Z
		if i%2 == 1 {
			r, z = target.Radius2, c.Z+target.Dz
		}
		faces[i] = place(yaw+float64(i)*math.Pi/2, r, z)
	}

	return faces
}
