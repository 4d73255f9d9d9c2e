package postprocess

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortByProbability(t *testing.T) {

	rnd := rand.New(rand.NewSource(1))

	for _, n := range []int{0, 1, 10, 257, 1000, 3549} {
		for _, workers := range []int{1, 3, 4, 8} {

			objs := make([]ArmorObject, n)
			for i := range objs {
				objs[i] = ArmorObject{ID: int64(i), Probability: rnd.Float32()}
			}

			expected := make([]float32, n)
			for i := range objs {
				expected[i] = objs[i].Probability
			}
			sort.Slice(expected, func(i, j int) bool { return expected[i] > expected[j] })

			sortByProbability(objs, workers)

			got := make([]float32, n)
			ids := make(map[int64]bool, n)
			for i := range objs {
				got[i] = objs[i].Probability
				ids[objs[i].ID] = true
			}

			assert.Equal(t, expected, got, "n=%d workers=%d", n, workers)
			assert.Len(t, ids, n)
		}
	}
}
