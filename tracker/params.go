package tracker

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidParams is returned by Params.Validate
var ErrInvalidParams = errors.New("invalid tracker parameters")

// Params are the association thresholds, lifecycle limits and filter noise
// scales used by the Tracker
type Params struct {
	// MaxMatchDistance is the furthest, in metres, a measured armor may be
	// from the predicted armor position to be associated with the target
	MaxMatchDistance float64 `yaml:"max_match_distance"`
	// MaxMatchYawDiff is the largest yaw difference, in radians, allowed for
	// association.  Larger differences on a lone armor are armor jumps
	MaxMatchYawDiff float64 `yaml:"max_match_yaw_diff"`
	// TrackingThres is the number of consecutive matches that must be
	// exceeded before a detected target becomes tracked
	TrackingThres int `yaml:"tracking_thres"`
	// LostTimeThres is how long a tracked target may go unmatched before it
	// is dropped
	LostTimeThres time.Duration `yaml:"lost_time_thres"`
	// InitRadius is the radius assumed for a newly acquired target
	InitRadius float64 `yaml:"init_radius"`
	// MinRadius and MaxRadius bound the estimated radius
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	// BalanceNumbers are the armor numbers that, on large plates, identify a
	// two armor balance body
	BalanceNumbers []string `yaml:"balance_numbers"`
	// SigmaQXYZ, SigmaQYaw and SigmaQR are the process noise acceleration
	// variances of the centre, yaw and radius
	SigmaQXYZ float64 `yaml:"sigma2_q_xyz"`
	SigmaQYaw float64 `yaml:"sigma2_q_yaw"`
	SigmaQR   float64 `yaml:"sigma2_q_r"`
	// RXYZFactor scales the position measurement noise with distance
	RXYZFactor float64 `yaml:"r_xyz_factor"`
	// RYaw is the yaw measurement noise
	RYaw float64 `yaml:"r_yaw"`
}

// DefaultParams returns the tracker parameters tuned for standard robots
func DefaultParams() Params {
	return Params{
		MaxMatchDistance: 0.15,
		MaxMatchYawDiff:  1.0,
		TrackingThres:    5,
		LostTimeThres:    300 * time.Millisecond,
		InitRadius:       0.26,
		MinRadius:        0.12,
		MaxRadius:        0.4,
		BalanceNumbers:   []string{"3", "4", "5"},
		SigmaQXYZ:        20,
		SigmaQYaw:        100,
		SigmaQR:          800,
		RXYZFactor:       0.05,
		RYaw:             0.02,
	}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {

	if p.MaxMatchDistance <= 0 || p.MaxMatchYawDiff <= 0 {
		return errors.Wrapf(ErrInvalidParams, "match thresholds %v, %v",
			p.MaxMatchDistance, p.MaxMatchYawDiff)
	}

	if p.TrackingThres < 0 || p.LostTimeThres < 0 {
		return errors.Wrapf(ErrInvalidParams, "tracking_thres %d, lost_time_thres %v",
			p.TrackingThres, p.LostTimeThres)
	}

	if p.MinRadius <= 0 || p.MinRadius > p.MaxRadius {
		return errors.Wrapf(ErrInvalidParams, "radius range [%v, %v]", p.MinRadius, p.MaxRadius)
	}

	if p.InitRadius < p.MinRadius || p.InitRadius > p.MaxRadius {
		return errors.Wrapf(ErrInvalidParams, "init_radius %v outside [%v, %v]",
			p.InitRadius, p.MinRadius, p.MaxRadius)
	}

	if p.SigmaQXYZ < 0 || p.SigmaQYaw < 0 || p.SigmaQR < 0 || p.RXYZFactor < 0 || p.RYaw <= 0 {
		return errors.Wrap(ErrInvalidParams, "noise scales must be positive")
	}

	return nil
}
