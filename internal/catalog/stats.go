package catalog

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"video-catalog/internal/logging"
	"video-catalog/internal/metrics"
)

// GetStatistics returns overall catalog statistics. Results are cached for
// the store's stats TTL because the dashboard polls this aggressively; any
// write that changes the counts calls ClearStatisticsCache.
func (s *Store) GetStatistics(ctx context.Context) (*Statistics, error) {
	s.statsMu.Lock()
	if s.statsCache != nil && time.Since(s.statsAt) < s.statsTTL {
		cached := *s.statsCache
		s.statsMu.Unlock()
		metrics.StatsCacheHits.Inc()
		return &cached, nil
	}
	s.statsMu.Unlock()
	metrics.StatsCacheMisses.Inc()

	stats, err := s.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	s.statsMu.Lock()
	s.statsCache = stats
	s.statsAt = time.Now()
	s.statsMu.Unlock()

	result := *stats
	return &result, nil
}

// ClearStatisticsCache forces the next GetStatistics call to requery.
func (s *Store) ClearStatisticsCache() {
	s.statsMu.Lock()
	s.statsCache = nil
	s.statsMu.Unlock()
}

func (s *Store) computeStatistics(ctx context.Context) (*Statistics, error) {
	done := observeQuery("get_statistics")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Single round trip for all aggregates
	rows, err := s.db.QueryContext(ctx, `
		SELECT 'video_count' as metric, COUNT(*) as value FROM videos
		UNION ALL
		SELECT 'activity_count', COUNT(*) FROM activities
		UNION ALL
		SELECT 'storage_total', COALESCE(SUM(file_size), 0) FROM videos WHERE has_local_copy = 1
		UNION ALL
		SELECT 'local_video_count', COUNT(*) FROM videos WHERE has_local_copy = 1
		UNION ALL
		SELECT 'youtube_video_count', COUNT(*) FROM videos WHERE has_youtube_link = 1
	`)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("failed to close rows: %v", err)
		}
	}()

	values := make(map[string]int64)
	for rows.Next() {
		var metric string
		var value int64
		if err := rows.Scan(&metric, &value); err != nil {
			done(err)
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}
		values[metric] = value
	}
	if err := rows.Err(); err != nil {
		done(err)
		return nil, err
	}

	stats := &Statistics{
		TotalVideos:       int(values["video_count"]),
		TotalActivities:   int(values["activity_count"]),
		TotalStorageBytes: values["storage_total"],
		LocalVideos:       int(values["local_video_count"]),
		YouTubeVideos:     int(values["youtube_video_count"]),
	}
	stats.TotalStorageMB = roundTo(float64(stats.TotalStorageBytes)/(1024*1024), 2)

	if free, err := s.freeSpace(); err == nil {
		stats.AvailableSpaceGB = roundTo(float64(free)/(1024*1024*1024), 2)
	} else {
		logging.Warn("Could not determine free disk space: %v", err)
	}

	done(nil)
	return stats, nil
}

// freeSpace reports free bytes on the filesystem holding the database.
func (s *Store) freeSpace() (uint64, error) {
	usage, err := disk.Usage(filepath.Dir(s.dbPath))
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// GetCounts implements metrics.StatsProvider for the periodic collector.
// Errors are logged rather than surfaced: a failed scrape keeps the
// previous gauge values.
func (s *Store) GetCounts() metrics.Counts {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var counts metrics.Counts

	stats, err := s.GetStatistics(ctx)
	if err != nil {
		logging.Error("Failed to collect catalog statistics: %v", err)
		return counts
	}

	counts.TotalVideos = stats.TotalVideos
	counts.TotalActivities = stats.TotalActivities
	counts.StorageUsedBytes = stats.TotalStorageBytes

	s.mu.RLock()
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&counts.TotalTags)
	if err == nil {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&counts.TotalCollections)
	}
	s.mu.RUnlock()
	if err != nil {
		logging.Error("Failed to collect tag/collection counts: %v", err)
	}

	if free, err := s.freeSpace(); err == nil {
		counts.StorageFreeBytes = int64(free)
	}

	return counts
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return math.Round(v*scale) / scale
}
