package parallel

import "sync"

// Fanout partitions [0, n) into contiguous chunks, one per worker, runs fn
// on each chunk through the pool and blocks until every chunk is done. The
// return acts as a barrier: callers sequence data-parallel phases by calling
// Fanout once per phase.
//
// fn must only write state semantically assigned to the items in its range
// (or shared state updated with commutative atomic operations); Fanout gives
// no ordering guarantee between chunks.
func (wp *WorkerPool) Fanout(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	// Overflow-safe chunk size, ceil(n/workers).
	chunkSize := int((int64(n) + int64(wp.workers) - 1) / int64(wp.workers))
	if chunkSize < 1 {
		chunkSize = 1
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}

		wg.Add(1)
		submitted := wp.Submit(func() {
			defer wg.Done()
			fn(lo, hi)
		})
		if !submitted {
			// Pool closed: run inline so the barrier still holds.
			fn(lo, hi)
			wg.Done()
		}
	}
	wg.Wait()
}
