package postprocess

import "math"

// suppress runs greedy non-maximum suppression over objs, which must already
// be sorted by descending probability, and returns the indices kept.  When a
// suppressed candidate is a near duplicate of a kept one (same class and
// color, IoU above FusionMinIoU and probability within FusionConfError) its
// corners are appended to the kept object's samples for later averaging.
func (d *ArmorDetector) suppress(objs []ArmorObject) []int {

	picked := make([]int, 0, len(objs))

	for i := range objs {
		a := &objs[i]
		keep := true

		for _, j := range picked {
			b := &objs[j]
			iou := calculateOverlap(a.Rect, b.Rect)

			if iou <= float64(d.Params.NMSThreshold) {
				continue
			}

			keep = false

			if iou > float64(d.Params.FusionMinIoU) &&
				math.Abs(float64(a.Probability-b.Probability)) < float64(d.Params.FusionConfError) &&
				a.Class == b.Class && a.Color == b.Color {
				b.Pts = append(b.Pts, a.Apex[:]...)
			}
		}

		if keep {
			picked = append(picked, i)
		}
	}

	return picked
}
