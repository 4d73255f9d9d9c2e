//go:build linux

package autoaim

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// SetCPUAffinity pins the calling OS thread to the given CPU cores, eg:
// []int{4,5,6,7} for the fast cores of an RK3588.  Only that thread is
// changed.  Threads the Go runtime already runs keep their mask, and a new
// runtime thread takes the mask of whichever thread creates it, so goroutines
// are not reliably confined.  Call runtime.LockOSThread first and do the
// pinned work on that goroutine.
func SetCPUAffinity(cores []int) error {

	if len(cores) == 0 {
		return errors.New("no cpu cores given")
	}

	var set unix.CPUSet

	for _, core := range cores {
		if core < 0 {
			return errors.Newf("invalid cpu core %d", core)
		}
		set.Set(core)
	}

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrap(err, "failed to set CPU affinity")
	}

	return nil
}

// CPUAffinity returns the cores the calling OS thread may run on
func CPUAffinity() ([]int, error) {

	var set unix.CPUSet

	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, errors.Wrap(err, "failed to get CPU affinity")
	}

	var cores []int

	for core := 0; len(cores) < set.Count(); core++ {
		if set.IsSet(core) {
			cores = append(cores, core)
		}
	}

	return cores, nil
}
