package thumbs

import (
	"os"
	"sync"
	"time"

	"video-catalog/internal/logging"
	"video-catalog/internal/metrics"
	"video-catalog/internal/workers"
)

// BackfillItem is one record missing a preview.
type BackfillItem struct {
	MediaID  int64
	FilePath string
}

// BackfillResult summarizes one backfill run.
type BackfillResult struct {
	Generated int
	Skipped   int
	Failed    int
	// Paths maps media ids to their newly written thumbnail paths, so the
	// caller can persist them.
	Paths map[int64]string
}

// Backfill generates previews for records that lack one, using a worker pool
// sized for CPU-bound work. Items whose source file is gone or whose
// thumbnail already exists are skipped. The caller is responsible for
// persisting the returned paths.
func (g *Generator) Backfill(items []BackfillItem) BackfillResult {
	result := BackfillResult{Paths: make(map[int64]string)}
	if !g.enabled || len(items) == 0 {
		result.Skipped = len(items)
		return result
	}

	numWorkers := workers.ForCPU(8)
	logging.Info("Thumbnail backfill: %d candidates, %d workers", len(items), numWorkers)

	metrics.ThumbnailBackfillRunsTotal.Inc()
	metrics.ThumbnailBackfillRunning.Set(1)
	defer metrics.ThumbnailBackfillRunning.Set(0)
	start := time.Now()

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan BackfillItem)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				outcome, path := g.backfillOne(item)
				mu.Lock()
				switch outcome {
				case "generated":
					result.Generated++
					result.Paths[item.MediaID] = path
				case "skipped":
					result.Skipped++
				default:
					result.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	metrics.ThumbnailBackfillLastDuration.Set(elapsed.Seconds())
	metrics.ThumbnailBackfillLastTimestamp.Set(float64(time.Now().Unix()))
	metrics.ThumbnailBackfillFiles.WithLabelValues("generated").Set(float64(result.Generated))
	metrics.ThumbnailBackfillFiles.WithLabelValues("skipped").Set(float64(result.Skipped))
	metrics.ThumbnailBackfillFiles.WithLabelValues("failed").Set(float64(result.Failed))

	logging.Info("Thumbnail backfill complete in %v: %d generated, %d skipped, %d failed",
		elapsed.Round(time.Millisecond), result.Generated, result.Skipped, result.Failed)
	return result
}

func (g *Generator) backfillOne(item BackfillItem) (string, string) {
	if item.FilePath == "" {
		return "skipped", ""
	}
	if _, err := os.Stat(item.FilePath); err != nil {
		logging.Debug("Backfill skipping %d: source missing (%s)", item.MediaID, item.FilePath)
		return "skipped", ""
	}
	if _, err := os.Stat(g.store.ThumbnailPath(item.MediaID)); err == nil {
		return "skipped", ""
	}

	path, ok := g.Generate(item.FilePath, item.MediaID)
	if !ok {
		return "failed", ""
	}
	return "generated", path
}
