package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, t := range []string{"image", "raw"} {
		for _, s := range []string{"ready", "fallback-original", "unavailable"} {
			ThumbnailGenerationsTotal.WithLabelValues(t, s)
		}
		ThumbnailGenerationDuration.WithLabelValues(t)
	}

	for _, b := range []string{"imaging", "vips"} {
		TranscodeTotal.WithLabelValues(b, "success")
		TranscodeTotal.WithLabelValues(b, "error")
	}

	for _, f := range []string{"PreviewImage", "JpgFromRaw", "DateTimeOriginal", "CreateDate"} {
		for _, s := range []string{"success", "error", "timeout", "missing"} {
			ExiftoolInvocationsTotal.WithLabelValues(f, s)
		}
		ExiftoolDuration.WithLabelValues(f)
	}

	for _, s := range []string{"exif", "exiftool", "filemtime", "unavailable"} {
		CaptureTimeSourceTotal.WithLabelValues(s)
	}

	DeletionsTotal.WithLabelValues("success")
	DeletionsTotal.WithLabelValues("error")

	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
	}
}
