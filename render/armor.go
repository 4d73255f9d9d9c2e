package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-autoaim/postprocess"
	"gocv.io/x/gocv"
)

// label is a text label placed beside an armor
type label struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// ArmorStyle defines how armors are outlined and labelled
type ArmorStyle struct {
	LineThickness int
	// TrackedColor outlines the armor of the tracked target
	TrackedColor color.RGBA
	// TrackedMargin draws a second outline this many pixels outside the
	// tracked armor, zero disables it
	TrackedMargin float64
	// CornerRadius is the radius of the circle marking each corner, zero
	// disables corner markers
	CornerRadius int
	// label text settings, the label sits on a box of the outline color
	LabelFace      gocv.HersheyFont
	LabelScale     float64
	LabelColor     color.RGBA
	LabelThickness int
	// LabelPad is the padding in pixels between the text and its box
	LabelPad int
}

// DefaultArmorStyle returns default armor style settings
func DefaultArmorStyle() ArmorStyle {
	return ArmorStyle{
		LineThickness:  2,
		TrackedColor:   Yellow,
		TrackedMargin:  6,
		CornerRadius:   3,
		LabelFace:      gocv.FontHersheySimplex,
		LabelScale:     0.5,
		LabelColor:     White,
		LabelThickness: 1,
		LabelPad:       4,
	}
}

// Armors outlines each detected armor on the source image and labels it with
// its number, color and probability.  Armors whose label equals trackedID
// are outlined in the tracked color, pass an empty trackedID when no target
// is tracked.
func Armors(img *gocv.Mat, objs []postprocess.ArmorObject, trackedID string,
	style ArmorStyle) {

	// labels are drawn last so outlines never cover them
	labels := make([]label, 0, len(objs))

	for _, obj := range objs {

		clr := armorColor(obj.ColorLabel, obj.Class)
		tracked := trackedID != "" && obj.Label == trackedID

		if tracked {
			clr = style.TrackedColor
		}

		pts := make([]image.Point, len(obj.Apex))

		for i, p := range obj.Apex {
			pts[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
		}

		outlines := [][]image.Point{pts}

		if tracked && style.TrackedMargin > 0 {
			outlines = append(outlines, offsetOutline(pts, style.TrackedMargin))
		}

		outline := gocv.NewPointsVectorFromPoints(outlines)
		gocv.Polylines(img, outline, true, clr, style.LineThickness)
		outline.Close()

		if style.CornerRadius > 0 {
			for _, p := range pts {
				gocv.Circle(img, p, style.CornerRadius, clr, -1)
			}
		}

		text := fmt.Sprintf("%s %s %.2f", obj.Label, obj.ColorLabel, obj.Probability)
		size := gocv.GetTextSize(text, style.LabelFace, style.LabelScale, style.LabelThickness)
		labels = append(labels, placeLabel(text, size, obj.Rect, clr, style.LabelPad))
	}

	for _, l := range labels {
		// draw box text gets written on
		gocv.Rectangle(img, l.rect, l.clr, -1)

		gocv.PutTextWithParams(img, l.text, l.textPos,
			style.LabelFace, style.LabelScale, style.LabelColor, style.LabelThickness,
			gocv.LineAA, false)
	}
}

// placeLabel left aligns a label of the given text size on the armor's
// bounding box, above it unless that would leave the top of the image
func placeLabel(text string, size image.Point, box postprocess.Rect,
	clr color.RGBA, pad int) label {

	left := int(box.Left)
	height := size.Y + 2*pad

	// bottom edge of the label box
	bottom := int(box.Top)

	if bottom-height < 0 {
		bottom = int(box.Bottom) + height
	}

	return label{
		rect:    image.Rect(left, bottom-height, left+size.X+2*pad, bottom),
		clr:     clr,
		text:    text,
		textPos: image.Pt(left+pad, bottom-pad),
	}
}

// Crosshair marks an image point, such as the image centre the armor
// selection is measured from
func Crosshair(img *gocv.Mat, pt image.Point, size int, clr color.RGBA, thickness int) {
	gocv.Line(img, image.Pt(pt.X-size, pt.Y), image.Pt(pt.X+size, pt.Y), clr, thickness)
	gocv.Line(img, image.Pt(pt.X, pt.Y-size), image.Pt(pt.X, pt.Y+size), clr, thickness)
}
