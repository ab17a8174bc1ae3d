package metrics

import "video-catalog/internal/storage"

// storageObserver implements storage.Observer using the Prometheus
// metrics declared in this package.
type storageObserver struct{}

// NewStorageObserver creates an observer that records managed storage
// metrics into the Prometheus counters and histograms declared in metrics.go.
func NewStorageObserver() storage.Observer {
	return &storageObserver{}
}

func (o *storageObserver) ObserveOperation(area, operation string, durationSeconds float64, err error) {
	StorageOperationDuration.WithLabelValues(area, operation).Observe(durationSeconds)
	if err != nil {
		StorageOperationErrors.WithLabelValues(area, operation).Inc()
	}
}

func (o *storageObserver) ObserveBytesCopied(kind string, bytes int64) {
	IngestBytesTotal.WithLabelValues(kind).Add(float64(bytes))
}
