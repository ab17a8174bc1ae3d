// Package thumbs produces preview images for cataloged videos. A
// representative frame is pulled with ffmpeg, scaled to a fixed box, and
// written as a JPEG named deterministically from the owning record's id.
package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	_ "image/png"

	"video-catalog/internal/logging"
	"video-catalog/internal/mediainfo"
	"video-catalog/internal/metrics"
	"video-catalog/internal/storage"
	"video-catalog/internal/task"
)

const (
	// Target preview box. Aspect ratio is preserved inside it.
	thumbWidth  = 320
	thumbHeight = 180

	// jpegQuality is the encode quality for preview images.
	jpegQuality = 85

	// generateTimeout bounds one thumbnail generation end to end.
	generateTimeout = 20 * time.Second

	// seekFraction positions the representative frame at 10% of the video.
	seekFraction = 0.1
)

// Generator extracts representative frames and writes scaled previews.
type Generator struct {
	store   *storage.FileStore
	enabled bool
}

// NewGenerator creates a Generator writing into store's thumbnail area.
func NewGenerator(store *storage.FileStore, enabled bool) *Generator {
	if !enabled {
		logging.Debug("Thumbnail generation disabled")
	}
	return &Generator{store: store, enabled: enabled}
}

// IsEnabled reports whether generation is active.
func (g *Generator) IsEnabled() bool {
	return g.enabled
}

// Generate produces a preview for the video at path, named for mediaID.
// Returns the thumbnail path and true on success. Failure or timeout returns
// ("", false); callers must treat that as "no preview", not an error.
func (g *Generator) Generate(path string, mediaID int64) (string, bool) {
	if !g.enabled {
		return "", false
	}

	backend := backendName()
	start := time.Now()

	ok, thumbPath := task.Run(generateTimeout, func(ctx context.Context) (string, error) {
		return g.generate(ctx, path, mediaID)
	})

	elapsed := time.Since(start)
	metrics.ThumbnailGenerationDuration.WithLabelValues(backend).Observe(elapsed.Seconds())

	if !ok {
		if elapsed >= generateTimeout {
			metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "timeout").Inc()
			logging.Warn("Thumbnail generation timed out for %s", path)
		} else {
			metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "error").Inc()
			logging.Debug("Thumbnail generation failed for %s", path)
		}
		return "", false
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "success").Inc()
	return thumbPath, true
}

func (g *Generator) generate(ctx context.Context, path string, mediaID int64) (string, error) {
	frame, err := extractFrame(ctx, path)
	if err != nil {
		return "", err
	}

	dest := g.store.ThumbnailPath(mediaID)
	if err := writeThumbnail(frame, dest); err != nil {
		return "", err
	}

	logging.Debug("Thumbnail written: %s", dest)
	return dest, nil
}

// extractFrame decodes one frame at 10% of the video's frame count, falling
// back to the first frame when the seek target is unknown or unreadable.
func extractFrame(ctx context.Context, path string) (image.Image, error) {
	seek := seekOffsetSeconds(ctx, path)

	if seek > 0 {
		img, err := runFFmpegFrame(ctx, path, seek)
		if err == nil {
			return img, nil
		}
		logging.Debug("Frame extraction at %.2fs failed for %s: %v, falling back to first frame", seek, path, err)
	}

	return runFFmpegFrame(ctx, path, 0)
}

// seekOffsetSeconds derives the seek position from frame count and frame
// rate. Returns 0 (first frame) when either is unavailable.
func seekOffsetSeconds(ctx context.Context, path string) float64 {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames,r_frame_rate",
		"-of", "csv=p=0",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0
	}

	// csv output: "<r_frame_rate>,<nb_frames>", e.g. "30/1,300"
	fields := strings.Split(strings.TrimSpace(stdout.String()), ",")
	if len(fields) < 2 {
		return 0
	}
	fps := mediainfo.ParseFrameRate(fields[0])
	frames, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || frames <= 0 || fps <= 0 {
		return 0
	}

	return seekFraction * float64(frames) / fps
}

func runFFmpegFrame(ctx context.Context, path string, seekSeconds float64) (image.Image, error) {
	args := []string{}
	if seekSeconds > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", seekSeconds))
	}
	args = append(args,
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

// writeThumbnail scales an image into the preview box and writes it to dest,
// preferring the vips encode path when the library is initialized.
func writeThumbnail(img image.Image, dest string) error {
	thumb := imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)

	if IsVipsAvailable() {
		err := encodeWithVips(thumb, dest)
		if err == nil {
			return nil
		}
		logging.Debug("Vips encode failed for %s: %v, falling back to imaging", dest, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write thumbnail %s: %w", dest, err)
	}
	return nil
}

func backendName() string {
	if IsVipsAvailable() {
		return "vips"
	}
	return "imaging"
}
