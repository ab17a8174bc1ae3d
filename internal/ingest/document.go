package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-catalog/internal/logging"
	"video-catalog/internal/metrics"
)

// IngestDocument copies a companion document into managed storage under a
// name derived from the owning media record's id. Size and format violations
// are rejected outright; there is no silent truncation.
func (ing *Ingestor) IngestDocument(sourcePath string, mediaID int64) (string, error) {
	start := time.Now()

	destPath, err := ing.ingestDocument(sourcePath, mediaID)

	metrics.IngestDuration.WithLabelValues("document").Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.IngestTotal.WithLabelValues("document", "success").Inc()
	case IsValidationError(err):
		metrics.IngestTotal.WithLabelValues("document", "rejected").Inc()
	default:
		metrics.IngestTotal.WithLabelValues("document", "error").Inc()
	}

	return destPath, err
}

func (ing *Ingestor) ingestDocument(sourcePath string, mediaID int64) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", &ValidationError{Reason: fmt.Sprintf("source file does not exist: %s", sourcePath)}
	}

	if info.Size() > maxDocumentSize {
		return "", &ValidationError{Reason: fmt.Sprintf("document too large: %s (max %s)",
			formatFileSize(info.Size()), formatFileSize(maxDocumentSize))}
	}

	ext := strings.ToLower(filepath.Ext(sourcePath))
	if !supportedDocumentFormats[ext] {
		return "", &ValidationError{Reason: fmt.Sprintf("unsupported document format: %s", ext)}
	}

	destPath, _, err := ing.store.StoreDocument(sourcePath, mediaID, ext)
	if err != nil {
		return "", copyFailed(err)
	}

	logging.Info("Ingested document %s for record %d", filepath.Base(destPath), mediaID)
	return destPath, nil
}
