package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Database storage files ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	// --- Ingestion outcomes (per kind × status) ---
	kinds := []string{"video", "document"}
	statuses := []string{"success", "degraded", "rejected", "error"}

	for _, kind := range kinds {
		IngestDuration.WithLabelValues(kind)
		IngestBytesTotal.WithLabelValues(kind)
		for _, status := range statuses {
			IngestTotal.WithLabelValues(kind, status)
		}
	}

	// --- Metadata extraction outcomes ---
	for _, status := range []string{"success", "timeout", "error"} {
		MetadataExtractionsTotal.WithLabelValues(status)
	}

	// --- Thumbnail generation (per backend × status) ---
	for _, backend := range []string{"imaging", "vips"} {
		ThumbnailGenerationDuration.WithLabelValues(backend)
		ThumbnailGenerationsTotal.WithLabelValues(backend, "success")
		ThumbnailGenerationsTotal.WithLabelValues(backend, "error")
		ThumbnailGenerationsTotal.WithLabelValues(backend, "timeout")
	}

	for _, status := range []string{"generated", "skipped", "failed"} {
		ThumbnailBackfillFiles.WithLabelValues(status)
	}

	// --- Storage operations (per area × operation) ---
	areas := []string{"videos", "thumbnails", "documents"}
	storageOps := []string{"copy", "write", "delete", "stat"}

	for _, area := range areas {
		for _, op := range storageOps {
			StorageOperationDuration.WithLabelValues(area, op)
			StorageOperationErrors.WithLabelValues(area, op)
		}
	}
}
