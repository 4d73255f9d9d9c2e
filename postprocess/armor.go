package postprocess

import (
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/swdee/go-autoaim/geometry"
	"github.com/swdee/go-autoaim/logger"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidImage is returned when the source frame has no pixels
	ErrInvalidImage = errors.New("invalid source image")
	// ErrInvalidTransform is returned when the letterbox transform is not 3x3
	ErrInvalidTransform = errors.New("invalid letterbox transform")
)

// ArmorDetector turns the raw armor model output of one frame into
// suppressed, corner averaged armor detections
type ArmorDetector struct {
	// Params are the model layout and threshold parameters
	Params ArmorParams
	// grids are the anchors in tensor order
	grids []GridCell
	// workers is the resolved number of goroutines for decode and sort
	workers int
	// idGen provides the ID for each detection
	idGen *idGenerator
}

// NewArmorDetector returns an armor detector for the given parameters
func NewArmorDetector(p ArmorParams) (*ArmorDetector, error) {

	if err := p.Validate(); err != nil {
		return nil, err
	}

	workers := p.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &ArmorDetector{
		Params:  p,
		grids:   GenerateGrids(p.InputWidth, p.InputHeight, p.Strides),
		workers: workers,
		idGen:   newIDGenerator(),
	}, nil
}

// NumAnchors returns the number of anchors the detector expects per tensor
func (d *ArmorDetector) NumAnchors() int {
	return len(d.grids)
}

// Detect decodes tensor t, whose corners are in network input coordinates,
// maps them onto an imgW x imgH source image with transform and returns the
// armors left after suppression.  An empty result is not an error.
func (d *ArmorDetector) Detect(t *Tensor, transform mat.Matrix,
	imgW, imgH int) ([]ArmorObject, error) {

	if imgW <= 0 || imgH <= 0 {
		return nil, errors.Wrapf(ErrInvalidImage, "%dx%d", imgW, imgH)
	}

	if t == nil {
		return nil, errors.Wrap(ErrTensorShape, "nil tensor")
	}

	if t.FieldLen() != d.Params.FieldLen() || t.NumAnchors() != len(d.grids) {
		return nil, errors.Wrapf(ErrTensorShape, "got %dx%d, expected %dx%d",
			t.NumAnchors(), t.FieldLen(), len(d.grids), d.Params.FieldLen())
	}

	if transform == nil {
		return nil, errors.Wrap(ErrInvalidTransform, "nil matrix")
	}

	if r, c := transform.Dims(); r != 3 || c != 3 {
		return nil, errors.Wrapf(ErrInvalidTransform, "%dx%d matrix", r, c)
	}

	proposals := d.generateProposals(t, transform)

	if len(proposals) == 0 {
		return nil, nil
	}

	sortByProbability(proposals, d.workers)

	if len(proposals) > d.Params.TopK {
		proposals = proposals[:d.Params.TopK]
	}

	picked := d.suppress(proposals)
	objects := make([]ArmorObject, 0, len(picked))

	for _, i := range picked {
		obj := proposals[i]
		obj.averageCorners()
		obj.Area = geometry.TetragonArea(obj.Apex)
		obj.ID = d.idGen.GetNext()
		obj.Label = label(d.Params.ClassLabels, obj.Class)
		obj.ColorLabel = label(d.Params.ColorLabels, obj.Color)

		objects = append(objects, obj)
	}

	logger.Logger.Debugw("armors detected",
		"proposals", len(proposals), "kept", len(objects))

	return objects, nil
}

// generateProposals decodes every anchor above the box threshold.  Anchors
// are split into contiguous ranges decoded concurrently, and the results are
// joined in range order.
func (d *ArmorDetector) generateProposals(t *Tensor, transform mat.Matrix) []ArmorObject {

	anchors := len(d.grids)
	workers := min(d.workers, anchors)

	if workers <= 1 {
		return d.decodeRange(t, transform, 0, anchors)
	}

	chunk := (anchors + workers - 1) / workers
	parts := make([][]ArmorObject, workers)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, anchors)

		if lo >= hi {
			continue
		}

		wg.Add(1)

		go func(w, lo, hi int) {
			defer wg.Done()
			parts[w] = d.decodeRange(t, transform, lo, hi)
		}(w, lo, hi)
	}

	wg.Wait()

	var proposals []ArmorObject

	for _, p := range parts {
		proposals = append(proposals, p...)
	}

	return proposals
}

// decodeRange decodes anchors [lo, hi)
func (d *ArmorDetector) decodeRange(t *Tensor, transform mat.Matrix, lo, hi int) []ArmorObject {

	var out []ArmorObject

	colorStart := objectnessField + 1
	classStart := colorStart + d.Params.NumColors

	for i := lo; i < hi; i++ {
		row := t.Row(i)
		prob := row[objectnessField]

		// written so a NaN score is rejected
		if !(prob >= d.Params.BoxThreshold) {
			continue
		}

		g := d.grids[i]
		stride := float64(g.Stride)

		var apex [4]geometry.Point

		for k := 0; k < 4; k++ {
			x := (float64(row[2*k]) + float64(g.X)) * stride
			y := (float64(row[2*k+1]) + float64(g.Y)) * stride
			apex[k] = applyTransform(transform, x, y)
		}

		out = append(out, ArmorObject{
			Apex:        apex,
			Pts:         append(make([]geometry.Point, 0, 4), apex[:]...),
			Rect:        rectFromPoints(apex),
			Color:       argmax(row[colorStart:classStart]),
			Class:       argmax(row[classStart : classStart+d.Params.NumClasses]),
			Probability: prob,
		})
	}

	return out
}

// label returns the name at index i or an empty string if none is configured
func label(labels []string, i int) string {

	if i < 0 || i >= len(labels) {
		return ""
	}

	return labels[i]
}
