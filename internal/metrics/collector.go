package metrics

import (
	"os"
	"time"

	"video-catalog/internal/logging"
)

// StatsProvider supplies catalog counts for the periodic collector.
type StatsProvider interface {
	GetCounts() Counts
}

// Counts holds the current catalog totals.
type Counts struct {
	TotalVideos      int
	TotalActivities  int
	TotalTags        int
	TotalCollections int
	StorageUsedBytes int64
	StorageFreeBytes int64
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectDatabaseSizes()

	if c.statsProvider == nil {
		return
	}

	counts := c.statsProvider.GetCounts()

	CatalogVideosTotal.Set(float64(counts.TotalVideos))
	CatalogActivitiesTotal.Set(float64(counts.TotalActivities))
	CatalogTagsTotal.Set(float64(counts.TotalTags))
	CatalogCollectionsTotal.Set(float64(counts.TotalCollections))
	CatalogStorageUsedBytes.Set(float64(counts.StorageUsedBytes))
	CatalogStorageFreeBytes.Set(float64(counts.StorageFreeBytes))

	logging.Debug("Metrics collected: videos=%d, activities=%d, tags=%d, collections=%d",
		counts.TotalVideos, counts.TotalActivities, counts.TotalTags, counts.TotalCollections)
}

// collectDatabaseSizes updates the SQLite file size gauges. Missing files
// (e.g., no WAL checkpoint yet) report zero.
func (c *Collector) collectDatabaseSizes() {
	if c.dbPath == "" {
		return
	}

	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}

	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}
