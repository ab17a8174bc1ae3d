package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"video-catalog/internal/logging"
)

// FileStore manages the on-disk layout of ingested media: per-activity video
// folders, deterministic thumbnail names, and per-record companion documents.
// It never touches the catalog database.
type FileStore struct {
	videosDir     string
	thumbnailsDir string
	documentsDir  string
}

// NewFileStore creates a FileStore rooted at the given directories.
// The directories must already exist (see config.EnsureDirectories).
func NewFileStore(videosDir, thumbnailsDir, documentsDir string) *FileStore {
	return &FileStore{
		videosDir:     videosDir,
		thumbnailsDir: thumbnailsDir,
		documentsDir:  documentsDir,
	}
}

// VideosDir returns the root directory for managed video files.
func (fs *FileStore) VideosDir() string {
	return fs.videosDir
}

// ActivityDir resolves (and creates if needed) the storage subdirectory for
// an activity, named via Sanitize.
func (fs *FileStore) ActivityDir(activityName string) (string, error) {
	name := Sanitize(activityName)
	if name == "" {
		return "", fmt.Errorf("activity name %q is empty after sanitizing", activityName)
	}

	dir := filepath.Join(fs.videosDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create activity directory %s: %w", dir, err)
	}
	return dir, nil
}

// NextAvailablePath returns dir/fileName, appending an incrementing numeric
// suffix before the extension until a free name is found. Managed files are
// never silently overwritten. A stat failure other than "not exist" is
// returned rather than treated as a taken name.
func (fs *FileStore) NextAvailablePath(dir, fileName string) (string, error) {
	free, err := pathFree(filepath.Join(dir, fileName))
	if err != nil {
		return "", err
	}
	if free {
		return filepath.Join(dir, fileName), nil
	}

	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func pathFree(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case os.IsNotExist(err):
		return true, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}

// StoreVideo copies a source file into the activity's storage directory under
// fileName, collision-suffixed if needed. Returns the destination path and
// the number of bytes copied.
func (fs *FileStore) StoreVideo(srcPath, activityName, fileName string) (string, int64, error) {
	start := time.Now()

	dir, err := fs.ActivityDir(activityName)
	if err != nil {
		observeOperation("videos", "copy", time.Since(start).Seconds(), err)
		return "", 0, err
	}

	dest, err := fs.NextAvailablePath(dir, fileName)
	if err != nil {
		observeOperation("videos", "copy", time.Since(start).Seconds(), err)
		return "", 0, err
	}

	size, err := copyFile(srcPath, dest)
	observeOperation("videos", "copy", time.Since(start).Seconds(), err)
	if err != nil {
		return "", 0, err
	}

	observeBytesCopied("video", size)
	logging.Debug("Stored video %s (%d bytes)", dest, size)
	return dest, size, nil
}

// StoreDocument copies a companion document into the documents directory
// under a name derived from the owning media record's id. Exactly one
// document maps to one record; re-assignment overwrites.
func (fs *FileStore) StoreDocument(srcPath string, mediaID int64, ext string) (string, int64, error) {
	start := time.Now()

	dest := filepath.Join(fs.documentsDir, fmt.Sprintf("doc_%d%s", mediaID, ext))
	size, err := copyFile(srcPath, dest)
	observeOperation("documents", "copy", time.Since(start).Seconds(), err)
	if err != nil {
		return "", 0, err
	}

	observeBytesCopied("document", size)
	logging.Debug("Stored document %s (%d bytes)", dest, size)
	return dest, size, nil
}

// ThumbnailPath returns the deterministic thumbnail path for a media record,
// so repeated generation overwrites rather than accumulates.
func (fs *FileStore) ThumbnailPath(mediaID int64) string {
	return filepath.Join(fs.thumbnailsDir, fmt.Sprintf("thumb_%d.jpg", mediaID))
}

// Remove deletes a managed file. A missing file is not an error: deletes are
// idempotent so the catalog can release files it only half-owns.
func (fs *FileStore) Remove(area, path string) error {
	start := time.Now()

	err := os.Remove(path)
	if os.IsNotExist(err) {
		err = nil
	}
	observeOperation(area, "delete", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// RemoveThumbnail deletes the thumbnail for a media record if present.
func (fs *FileStore) RemoveThumbnail(mediaID int64) error {
	return fs.Remove("thumbnails", fs.ThumbnailPath(mediaID))
}

// FreeSpace returns the free bytes on the volume backing the videos
// directory.
func (fs *FileStore) FreeSpace() (uint64, error) {
	usage, err := disk.Usage(fs.videosDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read disk usage for %s: %w", fs.videosDir, err)
	}
	return usage.Free, nil
}

// copyFile copies src to dest preserving the source's permissions and
// modification time. dest is truncated if it exists.
func copyFile(src, dest string) (int64, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("failed to stat source %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("failed to create destination %s: %w", dest, err)
	}

	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// Leave no partial file behind.
		os.Remove(dest)
		return 0, fmt.Errorf("failed to copy to %s: %w", dest, err)
	}

	if err := os.Chtimes(dest, time.Now(), srcInfo.ModTime()); err != nil {
		logging.Warn("Failed to preserve modification time on %s: %v", dest, err)
	}

	return written, nil
}
