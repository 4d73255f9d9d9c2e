package autoaim

import (
	"math"
	"time"

	"github.com/swdee/go-autoaim/logger"
	"github.com/swdee/go-autoaim/solver"
	"github.com/swdee/go-autoaim/tracker"
)

// Velocity is a muzzle speed measurement
type Velocity struct {
	Stamp time.Time
	// Speed is the projectile speed in metres per second
	Speed float64
}

// Output is the result of handling one frame of armors
type Output struct {
	Target tracker.Target
	Info   tracker.TrackerInfo
	// Aim is only set when HasAim is true, which is whenever the target is
	// being tracked
	Aim    solver.Aim
	HasAim bool
}

// Node feeds armor messages through the tracker and trajectory solver.  It is
// not safe for concurrent use, messages must be handled in arrival order.
type Node struct {
	params        NodeParams
	lostTimeThres time.Duration
	tracker       *tracker.Tracker
	solver        *solver.SolveTrajectory
	lastStamp     time.Time
	dt            float64
}

// NewNode returns a node with a tracker and solver built from p
func NewNode(p Params) (*Node, error) {

	t, err := tracker.NewTracker(p.Tracker)

	if err != nil {
		return nil, err
	}

	s, err := solver.NewSolveTrajectory(p.Solver)

	if err != nil {
		return nil, err
	}

	return &Node{
		params:        p.Node,
		lostTimeThres: p.Tracker.LostTimeThres,
		tracker:       t,
		solver:        s,
		dt:            p.Node.NominalFramePeriod.Seconds(),
	}, nil
}

// Tracker returns the node's tracker
func (n *Node) Tracker() *tracker.Tracker {
	return n.tracker
}

// HandleVelocity updates the muzzle speed used for aiming.  Non positive
// readings are ignored.
func (n *Node) HandleVelocity(v Velocity) {

	if v.Speed <= 0 {
		logger.Logger.Debugw("ignoring muzzle speed", "speed", v.Speed)
		return
	}

	n.solver.SetSpeed(v.Speed)
}

// HandleArmors runs one frame of armors through the tracker and, while a
// target is tracked, the trajectory solver
func (n *Node) HandleArmors(msg tracker.Armors) Output {

	armors := n.gate(msg.Armors)

	if n.tracker.State() == tracker.Lost {
		n.tracker.Init(armors)

	} else {
		dt := msg.Stamp.Sub(n.lastStamp).Seconds()

		if dt <= 0 {
			logger.Logger.Warnw("non increasing frame stamp, reusing last interval",
				"stamp", msg.Stamp, "last", n.lastStamp)
			dt = n.dt
		}

		n.dt = dt
		n.tracker.SetLostThreshold(int(n.lostTimeThres.Seconds() / dt))
		n.tracker.Update(armors, dt)
	}

	n.lastStamp = msg.Stamp

	out := Output{
		Target: n.tracker.Target(),
		Info:   n.tracker.Info(),
	}
	out.Target.Stamp = msg.Stamp

	if out.Target.Tracking {
		out.Aim = n.solver.Solve(out.Target)
		out.HasAim = true
	}

	return out
}

// gate drops armors outside the engagement volume
func (n *Node) gate(armors []tracker.Armor) []tracker.Armor {

	kept := make([]tracker.Armor, 0, len(armors))

	for _, a := range armors {
		if a.Position.Z > n.params.MaxArmorHeight ||
			math.Hypot(a.Position.X, a.Position.Y) > n.params.MaxArmorDistance {
			continue
		}

		kept = append(kept, a)
	}

	return kept
}
