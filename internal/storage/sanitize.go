package storage

import (
	"path/filepath"
	"regexp"
	"strings"
)

// maxNameLength bounds sanitized names so constructed paths stay well under
// common filesystem path limits.
const maxNameLength = 200

var (
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// Sanitize normalizes an arbitrary user-supplied name into a safe path
// segment: forbidden characters are stripped, whitespace runs become single
// underscores, repeated underscores collapse, and the result is truncated to
// maxNameLength preserving the file extension if present.
//
// Sanitize is pure and idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(name string) string {
	s := forbiddenChars.ReplaceAllString(name, "")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if len(s) <= maxNameLength {
		return s
	}

	ext := filepath.Ext(s)
	if len(ext) >= maxNameLength {
		// Degenerate case: the extension alone exceeds the cap.
		return s[:maxNameLength]
	}
	base := s[:len(s)-len(ext)]
	base = base[:maxNameLength-len(ext)]
	// Truncation can expose a trailing underscore; trim it so the result
	// stays a fixed point of Sanitize.
	return strings.TrimRight(base, "_") + ext
}
