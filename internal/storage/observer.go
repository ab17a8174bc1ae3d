package storage

// Observer records managed storage operation metrics. Implementations are
// provided by the metrics package to break the import cycle between storage
// and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a storage operation.
	// area is the managed storage area: "videos", "thumbnails", "documents".
	// operation is the operation type: "copy", "write", "delete", "stat".
	ObserveOperation(area, operation string, durationSeconds float64, err error)

	// ObserveBytesCopied records bytes copied into managed storage.
	// kind is the ingestion kind: "video", "document".
	ObserveBytesCopied(kind string, bytes int64)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// observeOperation is a nil-safe helper for the package-level observer.
func observeOperation(area, operation string, durationSeconds float64, err error) {
	if defaultObserver != nil {
		defaultObserver.ObserveOperation(area, operation, durationSeconds, err)
	}
}

func observeBytesCopied(kind string, bytes int64) {
	if defaultObserver != nil {
		defaultObserver.ObserveBytesCopied(kind, bytes)
	}
}
