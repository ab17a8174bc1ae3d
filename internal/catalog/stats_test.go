package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestGetStatistics(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")

	local := &Video{ActivityID: activityID, Title: "Finals", FileSize: 10 << 20, HasLocalCopy: true}
	if _, err := s.AddVideo(ctx, local); err != nil {
		t.Fatalf("AddVideo failed: %v", err)
	}
	link := &Video{ActivityID: activityID, Title: "Warmup", YouTubeURL: "https://youtu.be/abc", HasYouTubeLink: true}
	if _, err := s.AddVideo(ctx, link); err != nil {
		t.Fatalf("AddVideo failed: %v", err)
	}

	stats, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}

	if stats.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", stats.TotalVideos)
	}
	if stats.TotalActivities != 1 {
		t.Errorf("TotalActivities = %d, want 1", stats.TotalActivities)
	}
	if stats.LocalVideos != 1 {
		t.Errorf("LocalVideos = %d, want 1", stats.LocalVideos)
	}
	if stats.YouTubeVideos != 1 {
		t.Errorf("YouTubeVideos = %d, want 1", stats.YouTubeVideos)
	}
	// Storage only counts local copies
	if stats.TotalStorageBytes != 10<<20 {
		t.Errorf("TotalStorageBytes = %d, want %d", stats.TotalStorageBytes, 10<<20)
	}
	if stats.TotalStorageMB != 10 {
		t.Errorf("TotalStorageMB = %v, want 10", stats.TotalStorageMB)
	}
	if stats.AvailableSpaceGB <= 0 {
		t.Errorf("AvailableSpaceGB = %v, want > 0", stats.AvailableSpaceGB)
	}
}

func TestStatisticsCacheServesStaleUntilTTL(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t) // 30s TTL
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	seedVideo(t, s, activityID, "Finals")

	first, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if first.TotalVideos != 1 {
		t.Fatalf("TotalVideos = %d, want 1", first.TotalVideos)
	}

	// A write through the back door does not invalidate the cache.
	// Only store-level mutations do that.
	if _, err := s.db.Exec(
		"INSERT INTO videos (activity_id, title, upload_date) VALUES (?, 'Sneaky', ?)",
		activityID, nowString(),
	); err != nil {
		t.Fatalf("Raw insert failed: %v", err)
	}

	cached, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if cached.TotalVideos != 1 {
		t.Errorf("Cached TotalVideos = %d, want stale value 1", cached.TotalVideos)
	}

	s.ClearStatisticsCache()

	fresh, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if fresh.TotalVideos != 2 {
		t.Errorf("Fresh TotalVideos = %d, want 2", fresh.TotalVideos)
	}
}

func TestStatisticsCacheExpires(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = s.Close()
	}()

	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")

	if _, err := s.GetStatistics(ctx); err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}

	if _, err := s.db.Exec(
		"INSERT INTO videos (activity_id, title, upload_date) VALUES (?, 'Late', ?)",
		activityID, nowString(),
	); err != nil {
		t.Fatalf("Raw insert failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	stats, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalVideos != 1 {
		t.Errorf("TotalVideos after TTL = %d, want 1", stats.TotalVideos)
	}
}

func TestDeleteInvalidatesStatisticsCache(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	stats, err := s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalVideos != 1 {
		t.Fatalf("TotalVideos = %d, want 1", stats.TotalVideos)
	}

	if err := s.DeleteVideo(ctx, videoID); err != nil {
		t.Fatalf("DeleteVideo failed: %v", err)
	}

	stats, err = s.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalVideos != 0 {
		t.Errorf("TotalVideos after delete = %d, want 0", stats.TotalVideos)
	}
}

func TestGetCounts(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()
	activityID := seedActivity(t, s, "Sports Day")
	videoID := seedVideo(t, s, activityID, "Finals")

	if err := s.AssignTagsToVideo(ctx, videoID, []string{"outdoor", "championship"}); err != nil {
		t.Fatalf("AssignTagsToVideo failed: %v", err)
	}
	if _, err := s.AddCollection(ctx, "Highlights", "", ""); err != nil {
		t.Fatalf("AddCollection failed: %v", err)
	}

	counts := s.GetCounts()
	if counts.TotalVideos != 1 {
		t.Errorf("TotalVideos = %d, want 1", counts.TotalVideos)
	}
	if counts.TotalActivities != 1 {
		t.Errorf("TotalActivities = %d, want 1", counts.TotalActivities)
	}
	if counts.TotalTags != 2 {
		t.Errorf("TotalTags = %d, want 2", counts.TotalTags)
	}
	if counts.TotalCollections != 1 {
		t.Errorf("TotalCollections = %d, want 1", counts.TotalCollections)
	}
	if counts.StorageFreeBytes <= 0 {
		t.Errorf("StorageFreeBytes = %d, want > 0", counts.StorageFreeBytes)
	}
}

func TestStatisticsZeroTTL(t *testing.T) {
	t.Parallel()

	// Zero TTL means every call requeries; it must not error
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), dbPath, 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = s.Close()
	}()

	if _, err := s.GetStatistics(context.Background()); err != nil {
		t.Errorf("GetStatistics with zero TTL failed: %v", err)
	}
}
