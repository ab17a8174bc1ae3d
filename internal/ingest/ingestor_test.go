package ingest

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"video-catalog/internal/mediainfo"
	"video-catalog/internal/storage"
	"video-catalog/internal/thumbs"
)

func newTestIngestor(t *testing.T) (*Ingestor, string) {
	t.Helper()

	root := t.TempDir()
	videos := filepath.Join(root, "videos")
	thumbDir := filepath.Join(root, "thumbnails")
	docs := filepath.Join(root, "documents")
	for _, dir := range []string{videos, thumbDir, docs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	store := storage.NewFileStore(videos, thumbDir, docs)
	return New(store, mediainfo.NewExtractor(), thumbs.NewGenerator(store, true)), root
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available, skipping test")
	}
}

func makeTestClip(t *testing.T, dir string) string {
	t.Helper()
	requireFFmpeg(t)

	path := filepath.Join(dir, "clip.mp4")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "lavfi",
		"-i", "testsrc=duration=2:size=640x360:rate=30",
		"-pix_fmt", "yuv420p",
		"-y", path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test clip: %v\n%s", err, out)
	}
	return path
}

func TestIngestVideoMissingSource(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)

	_, err := ing.IngestVideo(filepath.Join(root, "nope.mp4"), "Sports Day", "Finals")
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// No file and no activity folder appear.
	entries, _ := os.ReadDir(filepath.Join(root, "videos"))
	if len(entries) != 0 {
		t.Errorf("videos dir has %d entries after rejected ingest", len(entries))
	}
}

func TestIngestVideoUnsupportedFormat(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)

	src := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(src, []byte("text"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	_, err := ing.IngestVideo(src, "Sports Day", "Finals")
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("error %q does not mention the unsupported format", err)
	}
}

func TestIngestVideoInvalidContainer(t *testing.T) {
	t.Parallel()
	requireFFmpeg(t)
	ing, root := newTestIngestor(t)

	src := filepath.Join(root, "fake.mp4")
	if err := os.WriteFile(src, []byte("not actually a video"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	result, err := ing.IngestVideo(src, "Sports Day", "Broken")
	if err != nil {
		t.Fatalf("unprobeable container must not fail ingestion: %v", err)
	}

	if result.Resolution != InvalidFileResolution {
		t.Errorf("Resolution = %q, want %q", result.Resolution, InvalidFileResolution)
	}
	if result.Format != UnknownFormat {
		t.Errorf("Format = %q, want %q", result.Format, UnknownFormat)
	}
	if result.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", result.DurationSeconds)
	}

	// The file is kept, just undescribed.
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("ingested file missing: %v", err)
	}
}

func TestIngestVideoValid(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)
	src := makeTestClip(t, root)

	result, err := ing.IngestVideo(src, "Sports Day", "Finals")
	if err != nil {
		t.Fatalf("IngestVideo failed: %v", err)
	}

	if result.FileName != "Finals.mp4" {
		t.Errorf("FileName = %q, want Finals.mp4", result.FileName)
	}
	if !strings.Contains(result.Path, "Sports_Day") {
		t.Errorf("Path = %q, expected the sanitized activity folder", result.Path)
	}
	if result.Resolution != "640x360" {
		t.Errorf("Resolution = %q, want 640x360", result.Resolution)
	}
	if result.DurationSeconds < 1.5 || result.DurationSeconds > 2.5 {
		t.Errorf("DurationSeconds = %v, want ~2", result.DurationSeconds)
	}
	if result.Format != "MP4" {
		t.Errorf("Format = %q, want MP4", result.Format)
	}
	if result.Size <= 0 {
		t.Errorf("Size = %d, want > 0", result.Size)
	}
}

func TestIngestVideoCollisionSuffix(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)
	src := makeTestClip(t, root)

	first, err := ing.IngestVideo(src, "Sports Day", "Finals")
	if err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	second, err := ing.IngestVideo(src, "Sports Day", "Finals")
	if err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	if first.Path == second.Path {
		t.Fatalf("second ingest reused %s", first.Path)
	}
	if second.FileName != "Finals_1.mp4" {
		t.Errorf("second FileName = %q, want Finals_1.mp4", second.FileName)
	}
}

func TestDestinationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sourcePath string
		title      string
		ext        string
		want       string
	}{
		{"title used when provided", "/tmp/raw clip.mp4", "Sports Finals", ".mp4", "Sports_Finals.mp4"},
		{"title already carries extension", "/tmp/raw.mp4", "Finals.mp4", ".mp4", "Finals.mp4"},
		{"empty title falls back to basename", "/tmp/raw clip.mp4", "", ".mp4", "raw_clip.mp4"},
		{"unusable title falls back to basename", "/tmp/clip.mp4", `<>:"?`, ".mp4", "clip.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := destinationName(tt.sourcePath, tt.title, tt.ext); got != tt.want {
				t.Errorf("destinationName(%q, %q, %q) = %q, want %q",
					tt.sourcePath, tt.title, tt.ext, got, tt.want)
			}
		})
	}
}

func TestIngestDocument(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)

	src := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(src, []byte("match notes"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	dest, err := ing.IngestDocument(src, 12)
	if err != nil {
		t.Fatalf("IngestDocument failed: %v", err)
	}
	if filepath.Base(dest) != "doc_12.txt" {
		t.Errorf("dest = %s, want doc_12.txt", filepath.Base(dest))
	}

	// Re-assignment overwrites the same deterministic name.
	if err := os.WriteFile(src, []byte("updated notes"), 0o644); err != nil {
		t.Fatalf("failed to rewrite source: %v", err)
	}
	again, err := ing.IngestDocument(src, 12)
	if err != nil {
		t.Fatalf("second IngestDocument failed: %v", err)
	}
	if again != dest {
		t.Errorf("re-assignment path = %s, want %s", again, dest)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "updated notes" {
		t.Errorf("document content = %q, want overwritten content", data)
	}
}

func TestIngestDocumentRejections(t *testing.T) {
	t.Parallel()
	ing, root := newTestIngestor(t)

	big := filepath.Join(root, "big.txt")
	if err := os.WriteFile(big, make([]byte, maxDocumentSize+1), 0o644); err != nil {
		t.Fatalf("failed to write oversized file: %v", err)
	}
	wrongExt := filepath.Join(root, "slides.pdf")
	if err := os.WriteFile(wrongExt, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}

	tests := []struct {
		name string
		src  string
	}{
		{"missing source", filepath.Join(root, "gone.txt")},
		{"oversized document", big},
		{"unsupported extension", wrongExt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ing.IngestDocument(tt.src, 1)
			if !IsValidationError(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	// Nothing landed in the documents area.
	entries, _ := os.ReadDir(filepath.Join(root, "documents"))
	if len(entries) != 0 {
		t.Errorf("documents dir has %d entries after rejected ingests", len(entries))
	}
}

func TestErrCopyFailedTaxonomy(t *testing.T) {
	t.Parallel()

	err := copyFailed(errors.New("disk full"))
	if !errors.Is(err, ErrCopyFailed) {
		t.Error("copyFailed result does not match ErrCopyFailed")
	}
	if IsValidationError(err) {
		t.Error("copy failure must not classify as a validation rejection")
	}
}

func TestSupportedFormatSets(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.mp4", "b.AVI", "c.mov", "d.mkv", "e.flv", "f.wmv", "g.m4v"} {
		if !IsSupportedVideo(path) {
			t.Errorf("IsSupportedVideo(%q) = false", path)
		}
	}
	for _, path := range []string{"a.webm", "b.txt", "c", "d.mp3"} {
		if IsSupportedVideo(path) {
			t.Errorf("IsSupportedVideo(%q) = true", path)
		}
	}

	if !IsSupportedDocument("notes.TXT") || !IsSupportedDocument("r.docx") {
		t.Error("expected .txt/.docx to be supported documents")
	}
	if IsSupportedDocument("slides.pdf") {
		t.Error("IsSupportedDocument(.pdf) = true")
	}

	formats := SupportedVideoFormats()
	if len(formats) != 7 {
		t.Errorf("SupportedVideoFormats has %d entries, want 7", len(formats))
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size int64
		want string
	}{
		{512, "512.00 B"},
		{2048, "2.00 KB"},
		{5 << 20, "5.00 MB"},
		{3 << 30, "3.00 GB"},
	}

	for _, tt := range tests {
		if got := formatFileSize(tt.size); got != tt.want {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
