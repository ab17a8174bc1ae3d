package metrics

import (
	"sync"
	"testing"
)

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestDatabaseMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"DBQueryTotal", DBQueryTotal},
		{"DBQueryDuration", DBQueryDuration},
		{"DBConnectionsOpen", DBConnectionsOpen},
		{"DBSizeBytes", DBSizeBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestIngestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"IngestTotal", IngestTotal},
		{"IngestDuration", IngestDuration},
		{"IngestBytesTotal", IngestBytesTotal},
		{"IngestInProgress", IngestInProgress},
		{"MetadataExtractionsTotal", MetadataExtractionsTotal},
		{"MetadataExtractionDuration", MetadataExtractionDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestThumbnailMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ThumbnailGenerationsTotal", ThumbnailGenerationsTotal},
		{"ThumbnailGenerationDuration", ThumbnailGenerationDuration},
		{"ThumbnailBackfillRunsTotal", ThumbnailBackfillRunsTotal},
		{"ThumbnailBackfillRunning", ThumbnailBackfillRunning},
		{"ThumbnailBackfillLastDuration", ThumbnailBackfillLastDuration},
		{"ThumbnailBackfillLastTimestamp", ThumbnailBackfillLastTimestamp},
		{"ThumbnailBackfillFiles", ThumbnailBackfillFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestCatalogMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"CatalogVideosTotal", CatalogVideosTotal},
		{"CatalogActivitiesTotal", CatalogActivitiesTotal},
		{"CatalogTagsTotal", CatalogTagsTotal},
		{"CatalogCollectionsTotal", CatalogCollectionsTotal},
		{"CatalogStorageUsedBytes", CatalogStorageUsedBytes},
		{"CatalogStorageFreeBytes", CatalogStorageFreeBytes},
		{"StatsCacheHits", StatsCacheHits},
		{"StatsCacheMisses", StatsCacheMisses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestMetricsAreRegistered(t *testing.T) {
	// Test that metrics can be used without panic, which verifies
	// they're properly registered with Prometheus.

	t.Run("Collect HTTP metrics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting HTTP metrics panicked: %v", r)
			}
		}()

		HTTPRequestsTotal.WithLabelValues("GET", "/api/videos", "200").Add(1)
		HTTPRequestDuration.WithLabelValues("GET", "/api/videos").Observe(0.1)
		HTTPRequestsInFlight.Inc()
		HTTPRequestsInFlight.Dec()
	})

	t.Run("Collect Database metrics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting DB metrics panicked: %v", r)
			}
		}()

		DBQueryTotal.WithLabelValues("search_videos", "success").Add(1)
		DBQueryDuration.WithLabelValues("search_videos").Observe(0.01)
		DBConnectionsOpen.Set(10)
		DBSizeBytes.WithLabelValues("main").Set(1024)
	})

	t.Run("Collect Ingest metrics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting Ingest metrics panicked: %v", r)
			}
		}()

		IngestTotal.WithLabelValues("video", "success").Add(1)
		IngestDuration.WithLabelValues("video").Observe(2.5)
		IngestBytesTotal.WithLabelValues("video").Add(1 << 20)
		IngestInProgress.Inc()
		IngestInProgress.Dec()
		MetadataExtractionsTotal.WithLabelValues("timeout").Inc()
		MetadataExtractionDuration.Observe(0.8)
	})

	t.Run("Collect Thumbnail metrics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting Thumbnail metrics panicked: %v", r)
			}
		}()

		ThumbnailGenerationsTotal.WithLabelValues("imaging", "success").Add(1)
		ThumbnailGenerationDuration.WithLabelValues("imaging").Observe(1.5)
		ThumbnailBackfillRunsTotal.Inc()
		ThumbnailBackfillFiles.WithLabelValues("generated").Set(12)
	})

	t.Run("Collect Storage metrics", func(t *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting Storage metrics panicked: %v", r)
			}
		}()

		StorageOperationDuration.WithLabelValues("videos", "copy").Observe(0.5)
		StorageOperationErrors.WithLabelValues("videos", "copy").Inc()
	})
}

func TestInitializeMetrics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics panicked: %v", r)
		}
	}()

	InitializeMetrics()
}

func TestAppInfoMetric(t *testing.T) {
	if AppInfo == nil {
		t.Fatal("AppInfo metric is nil")
	}

	AppInfo.WithLabelValues("1.0.0", "abc123", "go1.25").Set(1)
}

func TestMetricsConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				HTTPRequestsTotal.WithLabelValues("GET", "/api/videos", "200").Inc()
				DBQueryDuration.WithLabelValues("get_video").Observe(0.001)
				IngestInProgress.Inc()
				IngestInProgress.Dec()
			}
		}()
	}

	wg.Wait()
}

func BenchmarkHTTPMetricsIncrement(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		HTTPRequestsTotal.WithLabelValues("GET", "/api/videos", "200").Inc()
	}
}

func BenchmarkDatabaseMetrics(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		DBQueryTotal.WithLabelValues("search_videos", "success").Inc()
		DBQueryDuration.WithLabelValues("search_videos").Observe(0.01)
	}
}
