package match

import "sync"

// parallelChunks splits [0, n) into contiguous chunks and runs fn on each in
// its own goroutine. With fewer than two workers fn runs once, inline.
func parallelChunks(n, workers int, fn func(start, end int)) {
	if workers < 2 || n < 2 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	perWorker := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
