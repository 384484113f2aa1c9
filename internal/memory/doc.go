// Package memory keeps thumbnail generation inside the container's memory
// budget.
//
// Image decoding happens partly outside the Go heap (libvips, exiftool
// children), so GOMEMLIMIT has to leave headroom below the container limit.
// [ConfigureFromEnv] derives it from the container limit:
//
//   - GOMEMLIMIT: Standard Go variable. If set, it wins and is only reported.
//   - MEMORY_LIMIT: Container memory limit in bytes, typically from the
//     Kubernetes Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap,
//     between 0 and 1 (default: 0.85).
//
// A [Monitor] samples heap allocation against that limit. Once allocation
// crosses the critical watermark, [Monitor.Wait] blocks thumbnail workers
// until it falls back under the high watermark. Without a limit the monitor
// never blocks.
package memory
