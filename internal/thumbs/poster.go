package thumbs

import (
	"fmt"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"video-catalog/internal/logging"
)

// FromImage produces a preview from a still image instead of a video frame.
// Used for link-only records whose caller supplies a poster image (e.g., a
// downloaded video cover). The result is scaled and named exactly like a
// video thumbnail.
func (g *Generator) FromImage(imagePath string, mediaID int64) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("thumbnails disabled")
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open poster image %s: %w", imagePath, err)
	}

	dest := g.store.ThumbnailPath(mediaID)
	if err := writeThumbnail(img, dest); err != nil {
		return "", err
	}

	logging.Debug("Poster thumbnail written: %s", dest)
	return dest, nil
}
