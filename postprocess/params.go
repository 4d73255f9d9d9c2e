package postprocess

import (
	"runtime"

	"github.com/cockroachdb/errors"
)

// cornerFields is the number of tensor fields holding the four corner
// offsets of each anchor
const cornerFields = 8

// objectnessField is the tensor field holding the objectness score
const objectnessField = 8

// ErrInvalidParams is returned by ArmorParams.Validate
var ErrInvalidParams = errors.New("invalid armor detector parameters")

// ArmorParams defines the armor model layout and the thresholds used for
// decoding and suppression
type ArmorParams struct {
	// InputWidth is the network input width in pixels
	InputWidth int `yaml:"input_width"`
	// InputHeight is the network input height in pixels
	InputHeight int `yaml:"input_height"`
	// NumColors is the number of color logits per anchor
	NumColors int `yaml:"num_colors"`
	// NumClasses is the number of class logits per anchor
	NumClasses int `yaml:"num_classes"`
	// Strides are the feature map strides, each must divide the input size
	Strides []int `yaml:"strides"`
	// BoxThreshold is the minimum objectness, in [0,1], for an anchor to
	// become a candidate
	BoxThreshold float32 `yaml:"box_threshold"`
	// NMSThreshold is the maximum IoU, in [0,1], allowed between two kept
	// detections
	NMSThreshold float32 `yaml:"nms_threshold"`
	// TopK caps the number of sorted candidates entering suppression
	TopK int `yaml:"top_k"`
	// FusionMinIoU is the IoU, in [0,1], a suppressed candidate must exceed
	// for its corners to be fused into the survivor
	FusionMinIoU float32 `yaml:"fusion_min_iou"`
	// FusionConfError is the maximum confidence difference, in [0,1], for
	// corner fusion
	FusionConfError float32 `yaml:"fusion_conf_error"`
	// Workers is the number of goroutines used for decoding and sorting.
	// Zero selects runtime.NumCPU()
	Workers int `yaml:"workers"`
	// ClassLabels names each class index, one per class
	ClassLabels []string `yaml:"class_labels"`
	// ColorLabels names each color index, one per color
	ColorLabels []string `yaml:"color_labels"`
}

// DefaultArmorParams returns the parameters for the 416x416 armor model
// featuring:
// - Colors: 4 (blue, red, gray, purple)
// - Classes: 8 (outpost, 1 to 5, guard, base)
// - Strides of: 8, 16, 32
// - Box Threshold: 0.6
// - NMS Threshold: 0.3
// - Top K: 128
// - Fusion: IoU above 0.9 with confidence within 0.15
func DefaultArmorParams() ArmorParams {
	return ArmorParams{
		InputWidth:      416,
		InputHeight:     416,
		NumColors:       4,
		NumClasses:      8,
		Strides:         []int{8, 16, 32},
		BoxThreshold:    0.6,
		NMSThreshold:    0.3,
		TopK:            128,
		FusionMinIoU:    0.9,
		FusionConfError: 0.15,
		Workers:         runtime.NumCPU(),
		ClassLabels:     []string{"outpost", "1", "2", "3", "4", "5", "guard", "base"},
		ColorLabels:     []string{"blue", "red", "gray", "purple"},
	}
}

// FieldLen returns the number of tensor values per anchor: eight corner
// offsets, objectness, then the color and class logits
func (p ArmorParams) FieldLen() int {
	return cornerFields + 1 + p.NumColors + p.NumClasses
}

// Validate checks every parameter is within its documented range
func (p ArmorParams) Validate() error {

	if p.InputWidth <= 0 || p.InputHeight <= 0 {
		return errors.Wrapf(ErrInvalidParams, "input size %dx%d", p.InputWidth, p.InputHeight)
	}

	if p.NumColors <= 0 || p.NumClasses <= 0 {
		return errors.Wrapf(ErrInvalidParams, "%d colors, %d classes", p.NumColors, p.NumClasses)
	}

	if len(p.Strides) == 0 {
		return errors.Wrap(ErrInvalidParams, "no strides")
	}

	for _, s := range p.Strides {
		if s <= 0 {
			return errors.Wrapf(ErrInvalidParams, "stride %d", s)
		}
	}

	for name, v := range map[string]float32{
		"box_threshold":     p.BoxThreshold,
		"nms_threshold":     p.NMSThreshold,
		"fusion_min_iou":    p.FusionMinIoU,
		"fusion_conf_error": p.FusionConfError,
	} {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalidParams, "%s %v outside [0,1]", name, v)
		}
	}

	if p.TopK <= 0 {
		return errors.Wrapf(ErrInvalidParams, "top_k %d", p.TopK)
	}

	if p.Workers < 0 {
		return errors.Wrapf(ErrInvalidParams, "workers %d", p.Workers)
	}

	if len(p.ClassLabels) != 0 && len(p.ClassLabels) != p.NumClasses {
		return errors.Wrapf(ErrInvalidParams, "%d class labels for %d classes",
			len(p.ClassLabels), p.NumClasses)
	}

	if len(p.ColorLabels) != 0 && len(p.ColorLabels) != p.NumColors {
		return errors.Wrapf(ErrInvalidParams, "%d color labels for %d colors",
			len(p.ColorLabels), p.NumColors)
	}

	return nil
}
