// Package parallel provides chunked parallel loop helpers. Training
// image assembly and the per-test-image recognition loop are
// independent given the read-only model, so they can be split across
// CPU cores with results aggregated after the parallel section.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across the available CPU cores and calls
// fn with the (start, end) range each worker is responsible for.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so every item is covered
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or
// below threshold, and in parallel otherwise. Small corpora are not
// worth the goroutine overhead.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}

	Parallelize(items, fn)
}

// SumInts runs fn over chunked ranges in parallel and returns the sum
// of the per-chunk results. Used for match counters that must not be
// mutated concurrently.
func SumInts(items int, fn func(start, end int) int) int {
	if items == 0 {
		return 0
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	chunkSize := (items + numWorkers - 1) / numWorkers
	partial := make([]int, numWorkers)

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			partial[w] = fn(s, e)
		}(i, start, end)
	}

	wg.Wait()

	total := 0
	for _, p := range partial {
		total += p
	}
	return total
}
