// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"
)

// MaxConcurrency caps auto-tuned worker counts
const MaxConcurrency = 16

// OptimalConcurrency picks a worker count for I/O bound page fetches.
// Per-host politeness is enforced by the rate limiter, so this only bounds
// open connections and parse memory.
func OptimalConcurrency() int {
	numCPU := runtime.NumCPU()

	optimal := numCPU * 2
	if optimal > MaxConcurrency {
		optimal = MaxConcurrency
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}
