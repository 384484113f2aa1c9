package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bare_photos_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// AuthFailures counts rejected basic auth attempts by reason.
var AuthFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bare_photos_auth_failures_total",
		Help: "Rejected basic auth attempts",
	},
	[]string{"reason"},
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_thumbnail_generations_total",
			Help: "Thumbnail generation attempts by photo type and outcome",
		},
		[]string{"type", "status"}, // status: ready, fallback-original, unavailable
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bare_photos_thumbnail_generation_duration_seconds",
			Help:    "Time spent generating a missing thumbnail",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"type"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bare_photos_thumbnail_cache_hits_total",
			Help: "Thumbnail resolutions served from an existing cache file",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bare_photos_thumbnail_cache_misses_total",
			Help: "Thumbnail resolutions that had to generate a cache file",
		},
	)

	ThumbnailCacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_thumbnail_cache_size_bytes",
			Help: "Total size of the thumbnail cache directory",
		},
	)

	ThumbnailCacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_thumbnail_cache_count",
			Help: "Number of files in the thumbnail cache directory",
		},
	)

	TranscodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_transcode_total",
			Help: "Image transcodes by backend and outcome",
		},
		[]string{"backend", "status"},
	)
)

// External tool metrics
var (
	ExiftoolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_exiftool_invocations_total",
			Help: "exiftool invocations by requested field and outcome",
		},
		[]string{"field", "status"}, // status: success, error, timeout, missing
	)

	ExiftoolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bare_photos_exiftool_duration_seconds",
			Help:    "exiftool invocation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"field"},
	)

	CaptureTimeSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_capture_time_source_total",
			Help: "Capture time resolutions by provenance",
		},
		[]string{"source"},
	)
)

// Library metrics
var (
	ListingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bare_photos_listing_duration_seconds",
			Help:    "Time to enumerate and build a photo listing",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	ListingItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bare_photos_listing_items",
			Help:    "Number of entries returned per listing",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_deletions_total",
			Help: "Photo deletions by outcome",
		},
		[]string{"status"},
	)

	FavoritesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_favorites_total",
			Help: "Number of favorited paths",
		},
	)

	FavoritesSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bare_photos_favorites_save_errors_total",
			Help: "Failed favorites persistence attempts",
		},
	)
)

// SQLite favorites backend metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_db_query_total",
			Help: "SQLite queries by operation and status",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bare_photos_db_query_duration_seconds",
			Help:    "SQLite query duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_filesystem_retry_attempts_total",
			Help: "Retries after a stale NFS file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bare_photos_filesystem_retry_failures_total",
			Help: "Operations that still failed after all retries",
		},
		[]string{"operation"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bare_photos_memory_paused",
			Help: "1 while thumbnail generation is paused for memory, else 0",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bare_photos_memory_gc_pauses_total",
			Help: "Times generation was paused at the critical watermark",
		},
	)
)

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "bare_photos_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
