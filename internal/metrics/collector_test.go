package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStatsProvider struct {
	counts Counts
}

func (f *fakeStatsProvider) GetCounts() Counts {
	return f.counts
}

func TestCollectorUpdatesCatalogGauges(t *testing.T) {
	provider := &fakeStatsProvider{
		counts: Counts{
			TotalVideos:      42,
			TotalActivities:  7,
			TotalTags:        15,
			TotalCollections: 3,
			StorageUsedBytes: 1 << 30,
			StorageFreeBytes: 5 << 30,
		},
	}

	c := NewCollector(provider, "", time.Minute)
	c.collect()

	if got := testutil.ToFloat64(CatalogVideosTotal); got != 42 {
		t.Errorf("CatalogVideosTotal = %v, want 42", got)
	}
	if got := testutil.ToFloat64(CatalogActivitiesTotal); got != 7 {
		t.Errorf("CatalogActivitiesTotal = %v, want 7", got)
	}
	if got := testutil.ToFloat64(CatalogTagsTotal); got != 15 {
		t.Errorf("CatalogTagsTotal = %v, want 15", got)
	}
	if got := testutil.ToFloat64(CatalogCollectionsTotal); got != 3 {
		t.Errorf("CatalogCollectionsTotal = %v, want 3", got)
	}
	if got := testutil.ToFloat64(CatalogStorageUsedBytes); got != float64(1<<30) {
		t.Errorf("CatalogStorageUsedBytes = %v, want %v", got, float64(1<<30))
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, "", time.Minute)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect with nil provider panicked: %v", r)
		}
	}()
	c.collect()
}

func TestCollectorDatabaseSizes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")

	if err := os.WriteFile(dbPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write db file: %v", err)
	}
	if err := os.WriteFile(dbPath+"-wal", make([]byte, 512), 0o644); err != nil {
		t.Fatalf("write wal file: %v", err)
	}

	c := NewCollector(nil, dbPath, time.Minute)
	c.collect()

	if got := testutil.ToFloat64(DBSizeBytes.WithLabelValues("main")); got != 2048 {
		t.Errorf("main size = %v, want 2048", got)
	}
	if got := testutil.ToFloat64(DBSizeBytes.WithLabelValues("wal")); got != 512 {
		t.Errorf("wal size = %v, want 512", got)
	}
	// No shm file exists, so the gauge reports zero.
	if got := testutil.ToFloat64(DBSizeBytes.WithLabelValues("shm")); got != 0 {
		t.Errorf("shm size = %v, want 0", got)
	}
}

func TestCollectorStartStop(t *testing.T) {
	provider := &fakeStatsProvider{counts: Counts{TotalVideos: 1}}
	c := NewCollector(provider, "", 10*time.Millisecond)

	c.Start()
	time.Sleep(30 * time.Millisecond)
	c.Stop()

	if got := testutil.ToFloat64(CatalogVideosTotal); got != 1 {
		t.Errorf("CatalogVideosTotal = %v, want 1", got)
	}
}
