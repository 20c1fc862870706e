package fluid

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps small grids on one goroutine.
const minRowsPerWorker = 8

// ParallelFor splits [0, n) into contiguous chunks and runs fn on each
// chunk concurrently, returning once every chunk is done. workers <= 0
// uses GOMAXPROCS.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n/minRowsPerWorker < workers {
		workers = n / minRowsPerWorker
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// rows runs fn over interior rows [1, N-1) split across workers.
func (g Grid) rows(fn func(j0, j1 int)) {
	ParallelFor(g.N-2, g.Workers, func(start, end int) {
		fn(start+1, end+1)
	})
}

// cells runs fn over every offset of a field split across workers.
func (g Grid) cells(fn func(start, end int)) {
	ParallelFor(g.Cells(), g.Workers, fn)
}
