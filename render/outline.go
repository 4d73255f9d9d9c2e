package render

import (
	"image"

	clipper "github.com/ctessum/go.clipper"
)

// offsetOutline grows a closed polygon outward by margin pixels with mitered
// corners.  The polygon is returned unchanged when the offset produces no
// path.
func offsetOutline(pts []image.Point, margin float64) []image.Point {

	var path clipper.Path

	for _, pt := range pts {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtMiter, clipper.EtClosedPolygon)

	solution := co.Execute(margin)

	if len(solution) == 0 {
		return pts
	}

	out := make([]image.Point, 0, len(solution[0]))

	for _, pt := range solution[0] {
		out = append(out, image.Pt(int(pt.X), int(pt.Y)))
	}

	return out
}
