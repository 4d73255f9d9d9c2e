package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bounds(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

func TestOffsetOutlineGrowsSquare(t *testing.T) {

	square := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	b := bounds(offsetOutline(square, 2))

	assert.InDelta(t, -2, b.Min.X, 1)
	assert.InDelta(t, -2, b.Min.Y, 1)
	assert.InDelta(t, 12, b.Max.X, 1)
	assert.InDelta(t, 12, b.Max.Y, 1)
}

func TestOffsetOutlineZeroMargin(t *testing.T) {

	square := []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.Equal(t, image.Rect(0, 0, 10, 10), bounds(offsetOutline(square, 0)))
}

func TestArmorColor(t *testing.T) {

	assert.Equal(t, armorColors["red"], armorColor("red", 3))
	assert.Equal(t, classColors[3], armorColor("", 3))
	assert.Equal(t, classColors[1], armorColor("unknown", -9))
}
