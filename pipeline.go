package autoaim

import (
	"context"

	"github.com/swdee/go-autoaim/logger"
	"github.com/swdee/go-autoaim/postprocess"
	"github.com/swdee/go-autoaim/tracker"
	"golang.org/x/sync/errgroup"
)

// PoseEstimator solves the 3D pose of detected armors, typically with PnP
// against the camera calibration
type PoseEstimator interface {
	EstimatePoses(objs []postprocess.ArmorObject) []tracker.Armor
}

// Pipeline runs armor detection, pose estimation, tracking and aiming over a
// stream of frames
type Pipeline struct {
	detector *postprocess.ArmorDetector
	poses    PoseEstimator
	node     *Node
}

// NewPipeline returns a pipeline using the given parameters and pose
// estimator
func NewPipeline(p Params, poses PoseEstimator) (*Pipeline, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}

	d, err := postprocess.NewArmorDetector(p.Detector)

	if err != nil {
		return nil, err
	}

	n, err := NewNode(p)

	if err != nil {
		return nil, err
	}

	return &Pipeline{detector: d, poses: poses, node: n}, nil
}

// Detector returns the pipeline's armor detector
func (p *Pipeline) Detector() *postprocess.ArmorDetector {
	return p.detector
}

// Node returns the pipeline's node, use it to deliver muzzle speed updates
// from the same goroutine that drives the pipeline
func (p *Pipeline) Node() *Node {
	return p.node
}

// Detect decodes a frame and estimates the pose of every armor found
func (p *Pipeline) Detect(f Frame) (tracker.Armors, error) {

	objs, err := p.detector.Detect(f.Tensor, f.Transform, f.Width, f.Height)

	if err != nil {
		return tracker.Armors{}, err
	}

	return tracker.Armors{
		Stamp:  f.Stamp,
		Armors: p.poses.EstimatePoses(objs),
	}, nil
}

// ProcessFrame runs one frame through every stage
func (p *Pipeline) ProcessFrame(f Frame) (Output, error) {

	armors, err := p.Detect(f)

	if err != nil {
		return Output{}, err
	}

	return p.node.HandleArmors(armors), nil
}

// Run processes frames until the channel is closed or ctx is cancelled,
// sending one Output per successfully decoded frame.  Detection of a frame
// overlaps tracking and aiming of the previous one, while tracking stays
// sequential in frame order.  Frames that fail to decode are logged and
// skipped.  out is closed when Run returns.
func (p *Pipeline) Run(ctx context.Context, frames <-chan Frame, out chan<- Output) error {

	defer close(out)

	g, ctx := errgroup.WithContext(ctx)
	detected := make(chan tracker.Armors)

	g.Go(func() error {
		defer close(detected)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case f, ok := <-frames:
				if !ok {
					return nil
				}

				armors, err := p.Detect(f)

				if err != nil {
					logger.Logger.Warnw("skipping frame", "seq", f.Seq, "error", err)
					continue
				}

				select {
				case detected <- armors:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	g.Go(func() error {
		for armors := range detected {
			select {
			case out <- p.node.HandleArmors(armors):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	return g.Wait()
}
