package downloader

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Characters illegal on common filesystems. Everything else, including
// emoji and '#', is kept because it carries meaning for Shorts titles.
var invalidPathRunes = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// keeps sanitized names comfortably under filesystem limits
const maxFilenameRunes = 200

// sanitizeTitle makes a video title safe to use as a filename. Illegal
// characters are removed rather than substituted, leading/trailing spaces
// and dots are trimmed, and the result is capped at 200 runes.
func sanitizeTitle(title string) string {
	clean := invalidPathRunes.ReplaceAllString(title, "")
	clean = strings.Trim(clean, " .")
	if runes := []rune(clean); len(runes) > maxFilenameRunes {
		clean = strings.TrimSpace(string(runes[:maxFilenameRunes]))
	}
	if clean == "" {
		return "video"
	}
	return clean
}

// outputPathFor returns the media path for a video title inside outDir.
func outputPathFor(outDir, title, ext string) string {
	return filepath.Join(outDir, sanitizeTitle(title)+"."+ext)
}

// sidecarPathFor swaps the media extension for a sidecar extension such as
// "srt" or "mp3".
func sidecarPathFor(mediaPath, ext string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + "." + ext
}
