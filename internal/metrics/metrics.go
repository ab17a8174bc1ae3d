package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_catalog_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_catalog_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Ingestion metrics
var (
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_ingest_total",
			Help: "Total number of ingestion attempts by kind and outcome",
		},
		[]string{"kind", "status"}, // kind: "video", "document"; status: "success", "degraded", "rejected", "error"
	)

	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_catalog_ingest_duration_seconds",
			Help:    "End-to-end ingestion duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	IngestBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_ingest_bytes_total",
			Help: "Total bytes copied into managed storage",
		},
		[]string{"kind"},
	)

	IngestInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_ingest_in_progress",
			Help: "Number of ingestions currently running",
		},
	)
)

// Metadata extraction metrics
var (
	MetadataExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_metadata_extractions_total",
			Help: "Total number of metadata extraction attempts",
		},
		[]string{"status"}, // "success", "timeout", "error"
	)

	MetadataExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_catalog_metadata_extraction_duration_seconds",
			Help:    "Metadata extraction duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"backend", "status"}, // backend: "imaging", "vips"
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_catalog_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"backend"},
	)

	ThumbnailBackfillRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_catalog_thumbnail_backfill_runs_total",
			Help: "Total number of thumbnail backfill runs",
		},
	)

	ThumbnailBackfillRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_thumbnail_backfill_running",
			Help: "Whether a thumbnail backfill is currently running (1 = running, 0 = idle)",
		},
	)

	ThumbnailBackfillLastDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_thumbnail_backfill_last_duration_seconds",
			Help: "Duration of the last thumbnail backfill run in seconds",
		},
	)

	ThumbnailBackfillLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_thumbnail_backfill_last_timestamp",
			Help: "Unix timestamp of the last thumbnail backfill completion",
		},
	)

	ThumbnailBackfillFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_catalog_thumbnail_backfill_files",
			Help: "Number of files in the last backfill run by status",
		},
		[]string{"status"}, // "generated", "skipped", "failed"
	)
)

// Catalog content metrics
var (
	CatalogVideosTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_videos_total",
			Help: "Total number of video records in the catalog",
		},
	)

	CatalogActivitiesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_activities_total",
			Help: "Total number of activities in the catalog",
		},
	)

	CatalogTagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_tags_total",
			Help: "Total number of distinct tags",
		},
	)

	CatalogCollectionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_collections_total",
			Help: "Total number of collections",
		},
	)

	CatalogStorageUsedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_storage_used_bytes",
			Help: "Total bytes of managed video files on disk",
		},
	)

	CatalogStorageFreeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_catalog_storage_free_bytes",
			Help: "Free bytes on the storage volume",
		},
	)
)

// Statistics cache metrics
var (
	StatsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_catalog_stats_cache_hits_total",
			Help: "Total number of statistics cache hits",
		},
	)

	StatsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_catalog_stats_cache_misses_total",
			Help: "Total number of statistics cache misses",
		},
	)
)

// Storage operation metrics
var (
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_catalog_storage_operation_duration_seconds",
			Help:    "Duration of managed storage operations in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"area", "operation"}, // area: "videos", "thumbnails", "documents"
	)

	StorageOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_catalog_storage_operation_errors_total",
			Help: "Total number of failed managed storage operations",
		},
		[]string{"area", "operation"},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_catalog_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
