package postprocess

import (
	"github.com/cockroachdb/errors"
)

// ErrTensorShape is returned when an output tensor does not match the layout
// the detector was configured for
var ErrTensorShape = errors.New("tensor shape mismatch")

// Tensor is a read only view over the flat inference output laid out as
// [anchor][field] in row major order
type Tensor struct {
	data     []float32
	fieldLen int
	anchors  int
}

// NewTensor wraps data as a tensor with fieldLen values per anchor.  The data
// is not copied.
func NewTensor(data []float32, fieldLen int) (*Tensor, error) {

	if fieldLen <= 0 {
		return nil, errors.Wrapf(ErrTensorShape, "field length %d", fieldLen)
	}

	if len(data)%fieldLen != 0 {
		return nil, errors.Wrapf(ErrTensorShape,
			"%d values is not a multiple of field length %d", len(data), fieldLen)
	}

	return &Tensor{
		data:     data,
		fieldLen: fieldLen,
		anchors:  len(data) / fieldLen,
	}, nil
}

// NewTensorFromFloat16 converts half precision output given as raw bits into
// a float32 tensor
func NewTensorFromFloat16(bits []uint16, fieldLen int) (*Tensor, error) {
	return NewTensor(float16ToFloat32(bits), fieldLen)
}

// NumAnchors returns the number of anchors held in the tensor
func (t *Tensor) NumAnchors() int {
	return t.anchors
}

// FieldLen returns the number of values per anchor
func (t *Tensor) FieldLen() int {
	return t.fieldLen
}

// At returns the value of field for the given anchor
func (t *Tensor) At(anchor, field int) float32 {

	if field < 0 || field >= t.fieldLen {
		panic(errors.AssertionFailedf("tensor field %d out of range [0, %d)", field, t.fieldLen))
	}

	return t.Row(anchor)[field]
}

// Row returns the fields of a single anchor.  The returned slice shares memory
// with the tensor and is capped so it cannot be grown into the next anchor.
func (t *Tensor) Row(anchor int) []float32 {

	if anchor < 0 || anchor >= t.anchors {
		panic(errors.AssertionFailedf("tensor anchor %d out of range [0, %d)", anchor, t.anchors))
	}

	start := anchor * t.fieldLen
	end := start + t.fieldLen

	return t.data[start:end:end]
}
