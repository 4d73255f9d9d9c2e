package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Resizer letterboxes camera frames into the network input resolution and
// provides the inverse mapping used to project decoded corners back onto the
// source frame
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the network input width
	destWidth int
	// destHeight is the network input height
	destHeight int
	// tempMat holds the scaled image before padding
	tempMat gocv.Mat
	// letterbox parameters
	xPad  int
	yPad  int
	scale float64
	// scaled image dimensions before padding
	resizeW int
	resizeH int
}

// NewResizer returns a Resizer mapping srcWidth x srcHeight frames into
// destWidth x destHeight network input
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		tempMat:    gocv.NewMat(),
	}

	r.preCalc()

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc works out the uniform scale and centred padding
func (r *Resizer) preCalc() {

	scaleW := float64(r.destWidth) / float64(r.srcWidth)
	scaleH := float64(r.destHeight) / float64(r.srcHeight)

	r.scale = scaleW
	if scaleH < scaleW {
		r.scale = scaleH
	}

	r.resizeW = int(r.scale * float64(r.srcWidth))
	r.resizeH = int(r.scale * float64(r.srcHeight))

	r.xPad = (r.destWidth - r.resizeW) / 2
	r.yPad = (r.destHeight - r.resizeH) / 2
}

// LetterBoxResize scales src into dest keeping its aspect ratio, filling the
// remaining border with the given color
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationLinear)

	gocv.CopyMakeBorder(r.tempMat, dest, r.yPad, r.destHeight-r.resizeH-r.yPad,
		r.xPad, r.destWidth-r.resizeW-r.xPad, gocv.BorderConstant, color)
}

// TransformMatrix returns the 3x3 affine matrix mapping network input
// coordinates back onto the source image
func (r *Resizer) TransformMatrix() *mat.Dense {
	inv := 1 / r.scale

	return mat.NewDense(3, 3, []float64{
		inv, 0, -float64(r.xPad) * inv,
		0, inv, -float64(r.yPad) * inv,
		0, 0, 1,
	})
}

// ScaleFactor returns the scale factor used in letterbox resize
func (r *Resizer) ScaleFactor() float64 {
	return r.scale
}

// XPad returns the left padding used in letterbox resize
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the top padding used in letterbox resize
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
