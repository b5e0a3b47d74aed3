// Package kernel is the data-parallel launcher. It tiles a function over an
// index space of arbitrary size using a fixed grid of worker goroutines: a
// grid of blocks*threads workers strides across the population instead of
// growing with it. The grid size decouples hot-loop occupancy from
// population size the way an "offset += stride" re-launch loop does on an
// accelerator, except a goroutine takes the place of a re-invoked kernel tile
// and a result channel takes the place of the post-tile device synchronize.
package kernel

import (
	"fmt"
)

// Grid describes the fixed worker pool a Launch call spreads across.
type Grid struct {
	Blocks  int
	Threads int
}

// Width returns the total worker count, Blocks*Threads.
func (g Grid) Width() int {
	return g.Blocks * g.Threads
}

// DefaultGrid picks a grid sized to the host's parallelism, keeping the
// shape (Blocks, Threads) for symmetry with the accelerator model even
// though a goroutine doesn't distinguish block-local from grid-global
// workers the way a GPU thread does.
func DefaultGrid(parallelism int) Grid {
	if parallelism < 1 {
		parallelism = 1
	}
	return Grid{Blocks: parallelism, Threads: 1}
}

// Launch runs fn(i) for every i in [0, size), spread across grid.Width()
// worker goroutines with a fixed stride, and blocks until every worker has
// finished its slice, the same synchronization barrier an accelerator
// enforces after each tile. A panic inside fn is recovered and does not take
// down sibling workers before they've had a chance to finish their own
// slice; it is never returned as an error but re-panicked once every worker
// has reported back,
// matching "fatal, never recovered" for a genuinely broken strategy function
// while keeping the grid's other workers from being silently starved.
func Launch(grid Grid, size int, fn func(idx int)) error {
	width := grid.Width()
	if width < 1 {
		return fmt.Errorf("kernel: grid width must be >= 1, got %d", width)
	}
	if size <= 0 {
		return nil
	}

	type workerPanic struct {
		worker int
		value  any
	}

	results := make(chan *workerPanic, width)
	for w := 0; w < width; w++ {
		go func(worker int) {
			defer func() {
				if r := recover(); r != nil {
					results <- &workerPanic{worker: worker, value: r}
					return
				}
				results <- nil
			}()
			for idx := worker; idx < size; idx += width {
				fn(idx)
			}
		}(w)
	}

	var first *workerPanic
	for w := 0; w < width; w++ {
		if p := <-results; p != nil && first == nil {
			first = p
		}
	}
	if first != nil {
		panic(fmt.Sprintf("kernel: worker %d panicked: %v", first.worker, first.value))
	}
	return nil
}
