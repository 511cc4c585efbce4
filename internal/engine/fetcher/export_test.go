package fetcher

import "time"

// SetParallelism overrides the number of concurrent fetches.
func (f *Fetcher) SetParallelism(n int) {
	f.parallelism = n
}

// SetClock overrides the clock stamping fetch records.
func (f *Fetcher) SetClock(now func() time.Time) {
	f.now = now
}
