// Package ingest orchestrates bringing a submitted file into managed
// storage: format validation, sanitized copy, bounded metadata extraction,
// and thumbnail generation. Ingestion never mutates the catalog; persisting
// the result is the caller's subsequent step, keeping ingestion and
// persistence independently retryable.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"video-catalog/internal/logging"
	"video-catalog/internal/mediainfo"
	"video-catalog/internal/metrics"
	"video-catalog/internal/storage"
	"video-catalog/internal/thumbs"
)

// Sentinel metadata for files whose container could not be probed as video.
// The file is kept, just undescribed.
const (
	InvalidFileResolution = "Invalid file"
	UnknownFormat         = "Unknown"
)

// Result describes one successfully ingested video file.
type Result struct {
	Path            string
	FileName        string
	Size            int64
	DurationSeconds float64
	Resolution      string
	Format          string
}

// Ingestor validates, copies, and describes submitted files.
type Ingestor struct {
	store     *storage.FileStore
	extractor *mediainfo.Extractor
	thumbs    *thumbs.Generator
}

// New creates an Ingestor over the given storage and helpers.
func New(store *storage.FileStore, extractor *mediainfo.Extractor, generator *thumbs.Generator) *Ingestor {
	return &Ingestor{
		store:     store,
		extractor: extractor,
		thumbs:    generator,
	}
}

// IngestVideo copies sourcePath into the activity's managed folder and
// derives its metadata. The destination name comes from title when provided,
// else from the source filename, collision-suffixed either way.
//
// An unprobeable container is not an error: ingestion succeeds with sentinel
// metadata so the file is kept. Only a missing source, unsupported format,
// or copy failure aborts.
func (ing *Ingestor) IngestVideo(sourcePath, activityName, title string) (*Result, error) {
	start := time.Now()
	metrics.IngestInProgress.Inc()
	defer metrics.IngestInProgress.Dec()

	result, err := ing.ingestVideo(sourcePath, activityName, title)

	metrics.IngestDuration.WithLabelValues("video").Observe(time.Since(start).Seconds())
	switch {
	case err == nil && result.Resolution == InvalidFileResolution:
		metrics.IngestTotal.WithLabelValues("video", "degraded").Inc()
	case err == nil:
		metrics.IngestTotal.WithLabelValues("video", "success").Inc()
	case IsValidationError(err):
		metrics.IngestTotal.WithLabelValues("video", "rejected").Inc()
	default:
		metrics.IngestTotal.WithLabelValues("video", "error").Inc()
	}

	return result, err
}

func (ing *Ingestor) ingestVideo(sourcePath, activityName, title string) (*Result, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("source file does not exist: %s", sourcePath)}
	}

	ext := strings.ToLower(filepath.Ext(sourcePath))
	if !supportedVideoFormats[ext] {
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported video format: %s", ext)}
	}

	fileName := destinationName(sourcePath, title, ext)

	destPath, size, err := ing.store.StoreVideo(sourcePath, activityName, fileName)
	if err != nil {
		return nil, copyFailed(err)
	}

	result := &Result{
		Path:     destPath,
		FileName: filepath.Base(destPath),
		Size:     size,
	}

	if !ing.extractor.Validate(destPath) {
		logging.Warn("Ingested file failed video validation, keeping with sentinel metadata: %s", destPath)
		result.Resolution = InvalidFileResolution
		result.Format = UnknownFormat
		return result, nil
	}

	meta := ing.extractor.Extract(destPath)
	result.DurationSeconds = meta.DurationSeconds
	result.Resolution = meta.Resolution
	result.Format = strings.ToUpper(strings.TrimPrefix(ext, "."))

	logging.Info("Ingested %s (%s, %.1fs, %s)", result.FileName, result.Resolution,
		result.DurationSeconds, formatFileSize(size))
	return result, nil
}

// GenerateThumbnail produces the preview for an already-persisted record.
// Runs after the catalog insert because the thumbnail name derives from the
// record id.
func (ing *Ingestor) GenerateThumbnail(videoPath string, mediaID int64) (string, bool) {
	return ing.thumbs.Generate(videoPath, mediaID)
}

// PosterThumbnail produces the preview for a link-only record from a caller
// supplied still image.
func (ing *Ingestor) PosterThumbnail(imagePath string, mediaID int64) (string, error) {
	return ing.thumbs.FromImage(imagePath, mediaID)
}

// destinationName derives the managed filename from title if provided, else
// from the source basename; both are sanitized.
func destinationName(sourcePath, title, ext string) string {
	if title != "" {
		name := storage.Sanitize(title)
		if name != "" {
			if !strings.HasSuffix(strings.ToLower(name), ext) {
				name += ext
			}
			return name
		}
	}
	return storage.Sanitize(filepath.Base(sourcePath))
}

// formatFileSize renders a byte count in human readable units.
func formatFileSize(size int64) string {
	s := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if s < 1024 {
			return fmt.Sprintf("%.2f %s", s, unit)
		}
		s /= 1024
	}
	return fmt.Sprintf("%.2f TB", s)
}
