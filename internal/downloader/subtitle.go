package downloader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// fetchSubtitles pulls the video's caption-track transcript and renders it
// as SRT. An empty transcript is an error so callers can warn and move on.
func fetchSubtitles(ctx context.Context, client *youtube.Client, video *youtube.Video, lang string) (string, error) {
	transcript, err := client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		return "", wrapCategory(CategoryNetwork, fmt.Errorf("fetching transcript: %w", err))
	}
	if len(transcript) == 0 {
		return "", fmt.Errorf("no %s transcript available", lang)
	}
	return renderSRT(transcript), nil
}

// writeSubtitleFile writes an .srt sidecar next to the media file.
func writeSubtitleFile(ctx context.Context, client *youtube.Client, video *youtube.Video, mediaPath, lang string) error {
	srt, err := fetchSubtitles(ctx, client, video, lang)
	if err != nil {
		return err
	}
	path := sidecarPathFor(mediaPath, "srt")
	if err := os.WriteFile(path, []byte(srt), 0o644); err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("writing subtitles: %w", err))
	}
	return nil
}

func renderSRT(transcript youtube.VideoTranscript) string {
	var b strings.Builder
	for i, segment := range transcript {
		start := segment.StartMs
		end := segment.StartMs + segment.Duration
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(start), srtTimestamp(end), strings.TrimSpace(segment.Text))
	}
	return b.String()
}

// srtTimestamp formats milliseconds as HH:MM:SS,mmm.
func srtTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
