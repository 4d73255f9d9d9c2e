package postprocess

// GridCell is one anchor position on the feature map of a given stride
type GridCell struct {
	X      int
	Y      int
	Stride int
}

// GenerateGrids lists the anchors for a width x height network input in the
// order the model emits them: stride by stride, row by row
func GenerateGrids(width, height int, strides []int) []GridCell {

	var grids []GridCell

	for _, stride := range strides {
		numW := width / stride
		numH := height / stride

		for y := 0; y < numH; y++ {
			for x := 0; x < numW; x++ {
				grids = append(grids, GridCell{X: x, Y: y, Stride: stride})
			}
		}
	}

	return grids
}
