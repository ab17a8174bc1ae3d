// Package metrics provides Prometheus instrumentation for the video-catalog application.
//
// This package defines and exposes various metrics that can be scraped by Prometheus
// to monitor the health, performance, and behavior of the application. All metrics
// are prefixed with "video_catalog_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// The metrics are organized into the following categories:
//
// ## HTTP Metrics
//
// Track HTTP request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Database Metrics
//
// Monitor database query performance and storage:
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open database connections
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//
// ## Ingestion Metrics
//
// Track file ingestion outcomes:
//   - IngestTotal: Counter by kind (video/document) and outcome
//   - IngestDuration: Histogram of end-to-end ingestion time by kind
//   - IngestBytesTotal: Counter of bytes copied into managed storage
//   - IngestInProgress: Gauge of currently running ingestions
//
// ## Metadata Metrics
//
// Monitor ffprobe metadata extraction:
//   - MetadataExtractionsTotal: Counter by status (success/timeout/error)
//   - MetadataExtractionDuration: Histogram of extraction time
//
// ## Thumbnail Metrics
//
// Monitor thumbnail generation and backfill:
//   - ThumbnailGenerationsTotal: Counter by backend (imaging/vips) and status
//   - ThumbnailGenerationDuration: Histogram of generation time by backend
//   - ThumbnailBackfillRunsTotal: Counter of backfill runs
//   - ThumbnailBackfillRunning: Gauge indicating if a backfill is active
//   - ThumbnailBackfillLastDuration: Gauge of last backfill run duration
//   - ThumbnailBackfillLastTimestamp: Gauge of last backfill completion time
//   - ThumbnailBackfillFiles: Gauge of files by status (generated/skipped/failed)
//
// ## Catalog Metrics
//
// Track catalog contents, updated by the [Collector]:
//   - CatalogVideosTotal, CatalogActivitiesTotal, CatalogTagsTotal,
//     CatalogCollectionsTotal: Gauges of record counts
//   - CatalogStorageUsedBytes, CatalogStorageFreeBytes: Gauges of disk usage
//
// ## Statistics Cache Metrics
//
//   - StatsCacheHits / StatsCacheMisses: Counters for the statistics cache
//
// ## Storage Metrics
//
// Monitor managed storage operations via the storage.Observer implementation:
//   - StorageOperationDuration: Histogram by area and operation
//   - StorageOperationErrors: Counter of failed operations
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, import this package and use the
// exported metric variables:
//
//	metrics.IngestTotal.WithLabelValues("video", "success").Inc()
//	metrics.DBQueryDuration.WithLabelValues("search_videos").Observe(0.012)
//
// # Collector
//
// The package provides a [Collector] type that periodically gathers
// catalog counts from a [StatsProvider] and updates the corresponding
// gauges, along with the SQLite database file sizes:
//
//	collector := metrics.NewCollector(statsProvider, dbPath, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Example PromQL queries for common use cases:
//
// Request rate by endpoint:
//
//	sum(rate(video_catalog_http_requests_total[5m])) by (path)
//
// Ingestion failure rate:
//
//	sum(rate(video_catalog_ingest_total{status=~"rejected|error"}[5m])) /
//	sum(rate(video_catalog_ingest_total[5m]))
//
// P95 database query latency by operation:
//
//	histogram_quantile(0.95, sum(rate(video_catalog_db_query_duration_seconds_bucket[5m])) by (le, operation))
//
// Statistics cache hit rate:
//
//	rate(video_catalog_stats_cache_hits_total[5m]) /
//	(rate(video_catalog_stats_cache_hits_total[5m]) + rate(video_catalog_stats_cache_misses_total[5m]))
package metrics
