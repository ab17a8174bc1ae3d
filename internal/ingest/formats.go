package ingest

import (
	"path/filepath"
	"sort"
	"strings"
)

// supportedVideoFormats is the extension set accepted for video ingestion.
var supportedVideoFormats = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
	".m4v": true,
}

// supportedDocumentFormats is the extension set accepted for companion
// documents.
var supportedDocumentFormats = map[string]bool{
	".txt":  true,
	".docx": true,
}

// maxDocumentSize caps companion documents at 10 MB.
const maxDocumentSize = 10 << 20

// IsSupportedVideo reports whether path has a supported video extension.
func IsSupportedVideo(path string) bool {
	return supportedVideoFormats[strings.ToLower(filepath.Ext(path))]
}

// IsSupportedDocument reports whether path has a supported document extension.
func IsSupportedDocument(path string) bool {
	return supportedDocumentFormats[strings.ToLower(filepath.Ext(path))]
}

// SupportedVideoFormats returns the accepted video extensions, sorted.
func SupportedVideoFormats() []string {
	return sortedKeys(supportedVideoFormats)
}

// SupportedDocumentFormats returns the accepted document extensions, sorted.
func SupportedDocumentFormats() []string {
	return sortedKeys(supportedDocumentFormats)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
