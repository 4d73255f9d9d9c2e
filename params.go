package autoaim

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-autoaim/postprocess"
	"github.com/swdee/go-autoaim/solver"
	"github.com/swdee/go-autoaim/tracker"
	"gopkg.in/yaml.v3"
)

// NodeParams are the armor gating limits applied before tracking
type NodeParams struct {
	// MaxArmorDistance drops armors further than this, in metres, from the
	// launcher in the horizontal plane
	MaxArmorDistance float64 `yaml:"max_armor_distance"`
	// MaxArmorHeight drops armors higher than this, in metres
	MaxArmorHeight float64 `yaml:"max_armor_height"`
	// NominalFramePeriod is the frame interval assumed until two frame
	// timestamps have been seen
	NominalFramePeriod time.Duration `yaml:"nominal_frame_period"`
}

// Params collects the parameters of every stage
type Params struct {
	Detector postprocess.ArmorParams `yaml:"detector"`
	Tracker  tracker.Params          `yaml:"tracker"`
	Solver   solver.Params           `yaml:"solver"`
	Node     NodeParams              `yaml:"node"`
}

// DefaultParams returns the default parameters of every stage
func DefaultParams() Params {
	return Params{
		Detector: postprocess.DefaultArmorParams(),
		Tracker:  tracker.DefaultParams(),
		Solver:   solver.DefaultParams(),
		Node: NodeParams{
			MaxArmorDistance:   10,
			MaxArmorHeight:     1.2,
			NominalFramePeriod: 10 * time.Millisecond,
		},
	}
}

// Validate checks the parameters of every stage
func (p Params) Validate() error {

	if err := p.Detector.Validate(); err != nil {
		return errors.Wrap(err, "detector")
	}

	if err := p.Tracker.Validate(); err != nil {
		return errors.Wrap(err, "tracker")
	}

	if err := p.Solver.Validate(); err != nil {
		return errors.Wrap(err, "solver")
	}

	if p.Node.MaxArmorDistance <= 0 || p.Node.NominalFramePeriod <= 0 {
		return errors.Newf("node: max_armor_distance %v, nominal_frame_period %v",
			p.Node.MaxArmorDistance, p.Node.NominalFramePeriod)
	}

	return nil
}

// LoadParams reads a YAML parameter file.  Settings missing from the file
// keep their default values.
func LoadParams(file string) (Params, error) {

	p := DefaultParams()

	data, err := os.ReadFile(file)

	if err != nil {
		return p, errors.Wrap(err, "error reading params file")
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "error parsing params file %s", file)
	}

	if err := p.Validate(); err != nil {
		return p, errors.Wrapf(err, "invalid params file %s", file)
	}

	return p, nil
}
