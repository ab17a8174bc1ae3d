package ingest

import (
	"fmt"
	"net/url"
	"strings"
)

// IsVideoURL reports whether raw is a link to a supported external video
// host (YouTube).
func IsVideoURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// EmbedURL converts a YouTube link (watch, short link, shorts, live) into
// its canonical embed form. Unrecognized links are returned unchanged so the
// caller can still store what the user supplied.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	host := strings.ToLower(parsed.Host)

	// Already an embed URL.
	if strings.Contains(host, "youtube.com") && strings.HasPrefix(parsed.Path, "/embed/") {
		return raw
	}

	videoID := ""

	// Short link: youtu.be/VIDEO_ID
	if strings.Contains(host, "youtu.be") {
		videoID = strings.TrimPrefix(parsed.Path, "/")
	}

	if strings.Contains(host, "youtube.com") {
		query := parsed.Query()

		// Standard link: youtube.com/watch?v=VIDEO_ID, also covers
		// live/premiere links that carry a v parameter.
		if v := query.Get("v"); v != "" {
			videoID = v
		}

		// Shorts: youtube.com/shorts/VIDEO_ID
		if strings.Contains(parsed.Path, "/shorts/") {
			parts := strings.Split(parsed.Path, "/")
			if len(parts) >= 3 {
				videoID = parts[2]
			}
		}
	}

	// Fallback: scan path segments from the end for an 11-char video id.
	if videoID == "" {
		parts := strings.Split(parsed.Path, "/")
		for i := len(parts) - 1; i >= 0; i-- {
			if looksLikeVideoID(parts[i]) {
				videoID = parts[i]
				break
			}
		}
	}

	if videoID == "" {
		return raw
	}

	// Strip any trailing parameters glued to the id.
	videoID, _, _ = strings.Cut(videoID, "?")
	videoID, _, _ = strings.Cut(videoID, "&")
	return fmt.Sprintf("https://www.youtube.com/embed/%s", videoID)
}

// looksLikeVideoID matches YouTube's 11-character id alphabet.
func looksLikeVideoID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
