package solver

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-autoaim/tracker"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestSolver(t *testing.T, k float64) *SolveTrajectory {
	p := DefaultParams()
	p.K = k

	s, err := NewSolveTrajectory(p)
	require.NoError(t, err)

	return s
}

func TestMonoDirectionalAirResistanceVacuum(t *testing.T) {

	s := newTestSolver(t, 0)

	z, tof, ok := s.MonoDirectionalAirResistance(5, 10, math.Pi/4)
	require.True(t, ok)
	assert.InDelta(t, 1/math.Sqrt2, tof, 1e-12)
	assert.InDelta(t, 5-9.78*0.25, z, 1e-12)

	_, _, ok = s.MonoDirectionalAirResistance(5, 10, math.Pi)
	assert.False(t, ok)
}

func TestMonoDirectionalAirResistanceDrag(t *testing.T) {

	vacuum := newTestSolver(t, 0)
	drag := newTestSolver(t, 0.092)

	zv, tv, ok := vacuum.MonoDirectionalAirResistance(8, 25, 0.1)
	require.True(t, ok)
	zd, td, ok := drag.MonoDirectionalAirResistance(8, 25, 0.1)
	require.True(t, ok)

	assert.Greater(t, td, tv)
	assert.Less(t, zd, zv)
}

func TestPitchCompensation(t *testing.T) {

	s := newTestSolver(t, 0.092)

	for _, tc := range []struct{ dist, z float64 }{
		{5, 0.5},
		{3, -0.2},
		{7, 0.1},
	} {
		pitch := s.PitchCompensation(tc.dist, tc.z, 25)

		// the launch is raised above the line of sight to counter drop
		assert.Greater(t, pitch, math.Atan2(tc.z, tc.dist))

		got, _, ok := s.MonoDirectionalAirResistance(tc.dist, 25, pitch)
		require.True(t, ok)
		assert.InDelta(t, tc.z, got, 1e-3, "dist %v z %v", tc.dist, tc.z)
	}
}

func TestPitchCompensationDegenerate(t *testing.T) {

	s := newTestSolver(t, 0.092)

	assert.InDelta(t, math.Atan2(0.5, 5), s.PitchCompensation(5, 0.5, 0), 1e-12)
	assert.False(t, math.IsNaN(s.PitchCompensation(0, 0.5, 25)))
}

func normalTarget(yaw float64) tracker.Target {
	return tracker.Target{
		Tracking:  true,
		ArmorsNum: tracker.Normal4,
		Position:  r3.Vec{X: 3},
		Yaw:       yaw,
		Radius1:   0.25,
		Radius2:   0.2,
		Dz:        0.05,
	}
}

func TestSolveFrontFace(t *testing.T) {

	s := newTestSolver(t, 0.092)

	aim := s.Solve(normalTarget(0))
	assert.Equal(t, 0, aim.Face)
	assert.InDelta(t, 2.75, aim.Point.X, 1e-9)
	assert.InDelta(t, 0.0, aim.Point.Y, 1e-9)
	assert.InDelta(t, 0.0, aim.Yaw, 1e-9)
	assert.Greater(t, aim.Pitch, 0.0)
}

func TestSolveFaceSelection(t *testing.T) {

	s := newTestSolver(t, 0.092)

	// the fourth armor, on the other ring, has turned to face the launcher
	aim := s.Solve(normalTarget(math.Pi/2 + 0.1))
	assert.Equal(t, 3, aim.Face)
	assert.InDelta(t, 0.05, aim.Point.Z, 1e-9)
	assert.InDelta(t, 3-0.2*math.Cos(0.1), aim.Point.X, 1e-9)
	assert.InDelta(t, -0.2*math.Sin(0.1), aim.Point.Y, 1e-9)

	balance := normalTarget(math.Pi - 0.2)
	balance.ArmorsNum = tracker.Balance2
	assert.Equal(t, 1, s.Solve(balance).Face)

	outpost := normalTarget(2*math.Pi/3 + 0.1)
	outpost.ArmorsNum = tracker.Outpost3
	aim = s.Solve(outpost)
	assert.Equal(t, 2, aim.Face)
	assert.InDelta(t, 3-0.225*math.Cos(0.1), aim.Point.X, 1e-9)
}

func TestSolveLead(t *testing.T) {

	s := newTestSolver(t, 0.092)

	// 0.6s of latency and flight time spins the body back to face 0
	spinning := normalTarget(-0.6)
	spinning.VYaw = 1
	aim := s.Solve(spinning)
	assert.Equal(t, 0, aim.Face)
	assert.InDelta(t, 2.75, aim.Point.X, 1e-9)

	moving := normalTarget(0)
	moving.Velocity = r3.Vec{X: 1, Y: 0.5}
	aim = s.Solve(moving)
	assert.InDelta(t, 3.35, aim.Point.X, 1e-9)
	assert.InDelta(t, 0.3, aim.Point.Y, 1e-9)
	assert.InDelta(t, math.Atan2(0.3, 3.35), aim.Yaw, 1e-9)
}

func TestSolveSpeed(t *testing.T) {

	s := newTestSolver(t, 0.092)
	assert.Equal(t, 25.0, s.Speed())

	slow := s.Solve(normalTarget(0)).Pitch
	s.SetSpeed(15)
	assert.Greater(t, s.Solve(normalTarget(0)).Pitch, slow)
}

func TestParamsValidate(t *testing.T) {

	assert.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.Gain = 0
	_, err := NewSolveTrajectory(p)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}
