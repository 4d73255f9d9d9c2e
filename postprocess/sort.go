package postprocess

import (
	"sort"
	"sync"
)

// minParallelSort is the candidate count below which sorting runs on the
// calling goroutine
const minParallelSort = 256

// span is a half open range [lo, hi) of a slice
type span struct {
	lo int
	hi int
}

// sortByProbability orders objs by descending probability.  Contiguous chunks
// are sorted concurrently and then merged pairwise, so the slice is fully
// ordered when this returns.
func sortByProbability(objs []ArmorObject, workers int) {

	n := len(objs)

	if workers <= 1 || n < minParallelSort {
		sort.SliceStable(objs, func(i, j int) bool {
			return objs[i].Probability > objs[j].Probability
		})
		return
	}

	chunk := (n + workers - 1) / workers
	runs := make([]span, 0, workers)

	for lo := 0; lo < n; lo += chunk {
		runs = append(runs, span{lo: lo, hi: min(lo+chunk, n)})
	}

	var wg sync.WaitGroup

	for _, r := range runs {
		wg.Add(1)

		go func(part []ArmorObject) {
			defer wg.Done()

			sort.SliceStable(part, func(i, j int) bool {
				return part[i].Probability > part[j].Probability
			})
		}(objs[r.lo:r.hi])
	}

	wg.Wait()

	src := objs
	dst := make([]ArmorObject, n)

	for len(runs) > 1 {
		next := make([]span, 0, (len(runs)+1)/2)

		for i := 0; i < len(runs); i += 2 {

			if i+1 == len(runs) {
				// odd run out carries over unchanged
				r := runs[i]
				copy(dst[r.lo:r.hi], src[r.lo:r.hi])
				next = append(next, r)
				continue
			}

			a, b := runs[i], runs[i+1]
			wg.Add(1)

			go func(a, b span) {
				defer wg.Done()
				mergeByProbability(dst[a.lo:b.hi], src[a.lo:a.hi], src[b.lo:b.hi])
			}(a, b)

			next = append(next, span{lo: a.lo, hi: b.hi})
		}

		wg.Wait()

		src, dst = dst, src
		runs = next
	}

	if &src[0] != &objs[0] {
		copy(objs, src)
	}
}

// mergeByProbability merges the descending runs a and b into dst, taking from
// a first on equal probability
func mergeByProbability(dst, a, b []ArmorObject) {

	i, j, k := 0, 0, 0

	for i < len(a) && j < len(b) {
		if a[i].Probability >= b[j].Probability {
			dst[k] = a[i]
			i++
		} else {
			dst[k] = b[j]
			j++
		}
		k++
	}

	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
