package postprocess

import (
	"math"

	"github.com/swdee/go-autoaim/geometry"
)

// Rect is an axis aligned box in source image pixels
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Area returns the area of the box
func (r Rect) Area() float64 {
	return math.Max(0, r.Right-r.Left) * math.Max(0, r.Bottom-r.Top)
}

// rectFromPoints returns the min/max envelope of the given corners
func rectFromPoints(pts [4]geometry.Point) Rect {

	r := Rect{
		Left:   pts[0].X,
		Top:    pts[0].Y,
		Right:  pts[0].X,
		Bottom: pts[0].Y,
	}

	for _, p := range pts[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}

	return r
}

// ArmorObject is a single armor plate detected in a frame
type ArmorObject struct {
	// ID is a unique ID assigned to the detection
	ID int64
	// Apex are the four plate corners in source image pixels, in the corner
	// order the model was trained with
	Apex [4]geometry.Point
	// Pts are the corner samples gathered from this detection and any
	// near identical detections fused into it, in groups of four
	Pts []geometry.Point
	// Rect is the envelope of Apex used for overlap tests
	Rect Rect
	// Class is the class index, Label its name
	Class int
	Label string
	// Color is the color index, ColorLabel its name
	Color      int
	ColorLabel string
	// Probability is the objectness score
	Probability float32
	// Area is the area of the quadrilateral formed by Apex
	Area float64
}

// averageCorners replaces Apex with the mean of each corner position over all
// fused samples.  Objects without fused samples are left unchanged.
func (a *ArmorObject) averageCorners() {

	if len(a.Pts) < 8 {
		return
	}

	var sum [4]geometry.Point

	for i, p := range a.Pts {
		sum[i%4] = sum[i%4].Add(p)
	}

	n := float64(len(a.Pts) / 4)

	for i := range sum {
		a.Apex[i] = sum[i].Scale(1 / n)
	}

	a.Rect = rectFromPoints(a.Apex)
}
