// Package metrics provides Prometheus instrumentation for bare-photos.
//
// All metrics are prefixed with "bare_photos_" and registered with the
// default registry through promauto, so importing the package is enough
// to expose them on /metrics.
//
// # Metric Categories
//
//   - HTTP: request counts, durations and in-flight requests
//   - Thumbnails: generations by type and outcome, cache hits and misses,
//     cache size (sampled by Collector), transcodes per backend
//   - External tool: exiftool invocations by field and outcome
//   - Library: listing duration and size, deletions, favorites count
//   - Filesystem: NFS stale-handle retry counters
package metrics
