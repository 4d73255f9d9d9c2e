package tracker

import (
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ArmorType is the physical size of an armor plate
type ArmorType string

const (
	ArmorSmall ArmorType = "small"
	ArmorLarge ArmorType = "large"
)

// Armor is one armor plate pose solved from a detection
type Armor struct {
	// Number is the plate identity, such as "1" to "5", "outpost", "guard"
	// or "base"
	Number string `json:"number"`
	// Type is the plate size
	Type ArmorType `json:"type"`
	// Position of the plate centre in metres
	Position r3.Vec `json:"position"`
	// Orientation of the plate as a unit quaternion
	Orientation quat.Number `json:"orientation"`
	// DistanceToImageCenter is the pixel distance of the plate from the
	// image centre, used to choose which target to lock on to
	DistanceToImageCenter float64 `json:"distance_to_image_center"`
}

// Armors is the set of armors seen in one frame
type Armors struct {
	Stamp  time.Time `json:"stamp"`
	Armors []Armor   `json:"armors"`
}

// ArmorsNum is the number of armor plates mounted on a target body
type ArmorsNum int

const (
	Balance2 ArmorsNum = 2
	Outpost3 ArmorsNum = 3
	Normal4  ArmorsNum = 4
)

func (n ArmorsNum) String() string {
	switch n {
	case Balance2:
		return "balance_2"
	case Outpost3:
		return "outpost_3"
	case Normal4:
		return "normal_4"
	}
	return "unknown"
}

// Target is the tracked body state published after each frame
type Target struct {
	Stamp time.Time
	// Tracking is true while the tracker holds a confirmed target, including
	// short losses
	Tracking  bool
	ID        string
	ArmorsNum ArmorsNum
	// Position is the rotation centre of the body, the Z component being the
	// height of the tracked armor ring
	Position r3.Vec
	Velocity r3.Vec
	Yaw      float64
	VYaw     float64
	// Radius1 is the radius of the tracked armor, Radius2 that of the other
	// armor pair on four armor bodies
	Radius1 float64
	Radius2 float64
	// Dz is the height of the other armor ring relative to Position.Z
	Dz float64
}

// TrackerInfo reports how the last association attempt went
type TrackerInfo struct {
	// PositionDiff is the distance between the predicted armor position and
	// the closest armor with the tracked number
	PositionDiff float64
	// YawDiff is the yaw difference between the prediction and that armor
	YawDiff float64
	// Jumped is set when the frame was handled as an armor jump
	Jumped bool
	// Diverged is set when a jump disagreed with the filter enough to reset
	// the centre position and velocities
	Diverged bool
}
