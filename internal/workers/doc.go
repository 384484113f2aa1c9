/*
Package workers sizes and runs bounded worker pools.

Worker counts are derived from GOMAXPROCS rather than runtime.NumCPU, so a
container with a CPU limit of 2 on a 64-core node gets 2 workers per unit of
multiplier instead of 64.

	numWorkers := workers.ForCPU(8)   // image decoding: 1 per CPU, max 8
	numWorkers := workers.ForIO(16)   // stat-heavy work: 2 per CPU, max 16
	numWorkers := workers.ForMixed(8) // building photo entries: 1.5 per CPU

The LIST_WORKERS environment variable overrides the calculation; the limit
still applies.

Each runs a function over a slice with a fixed number of goroutines and
stops handing out work once the context is cancelled:

	workers.Each(ctx, workers.ForMixed(8), paths, func(ctx context.Context, i int, p string) {
		entries[i] = build(ctx, p)
	})
*/
package workers
