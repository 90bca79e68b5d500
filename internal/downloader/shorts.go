package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"
)

const (
	minChunkSize     int64 = 256 * 1024
	maxChunkSize     int64 = 2 * 1024 * 1024
	targetChunkCount int64 = 64
)

// adjustChunkSize picks a smaller chunk size for the YouTube client to keep
// progress updates frequent without spawning thousands of requests.
func adjustChunkSize(client *youtube.Client, contentLength int64) {
	if client == nil || contentLength <= 0 {
		return
	}
	chunk := contentLength / targetChunkCount
	if chunk < minChunkSize {
		chunk = minChunkSize
	} else if chunk > maxChunkSize {
		chunk = maxChunkSize
	}
	client.ChunkSize = chunk
}

// seam for tests: the run loop exercises failure policy without ffmpeg
var muxStreamsFn = muxStreams

// downloadShort fetches the best video/audio stream pair for one short and
// muxes them into <sanitized title>.mp4 inside outDir. An existing non-empty
// output file skips the download.
func downloadShort(ctx context.Context, client *youtube.Client, video *youtube.Video, outDir string, printer *Printer, prefix string) (outputPath string, bytes int64, skipped bool, err error) {
	videoFormat, audioFormat, err := pickBestPair(video.Formats)
	if err != nil {
		return "", 0, false, err
	}

	outputPath = outputPathFor(outDir, video.Title, "mp4")
	if info, statErr := os.Stat(outputPath); statErr == nil && info.Size() > 0 {
		return outputPath, 0, true, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", 0, false, wrapCategory(CategoryFilesystem, fmt.Errorf("creating output directory: %w", err))
	}

	videoTmp := outputPath + ".video.tmp"
	audioTmp := outputPath + ".audio.tmp"
	defer os.Remove(videoTmp)
	defer os.Remove(audioTmp)

	if err := fetchStream(ctx, client, video, videoFormat, videoTmp, printer, prefix); err != nil {
		return "", 0, false, err
	}
	if err := fetchStream(ctx, client, video, audioFormat, audioTmp, printer, prefix); err != nil {
		return "", 0, false, err
	}

	if err := muxStreamsFn(videoTmp, audioTmp, outputPath); err != nil {
		os.Remove(outputPath)
		return "", 0, false, err
	}
	if err := validateMP4(outputPath); err != nil {
		os.Remove(outputPath)
		return "", 0, false, err
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", 0, false, wrapCategory(CategoryFilesystem, fmt.Errorf("stat output: %w", err))
	}
	return outputPath, info.Size(), false, nil
}

// fetchStream downloads one elementary stream to path, reporting progress.
func fetchStream(ctx context.Context, client *youtube.Client, video *youtube.Video, format *youtube.Format, path string, printer *Printer, prefix string) error {
	adjustChunkSize(client, format.ContentLength)
	stream, size, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return wrapCategory(CategoryNetwork, fmt.Errorf("starting %s stream: %w", streamKind(format), err))
	}
	defer stream.Close()
	if size <= 0 && format.ContentLength > 0 {
		size = format.ContentLength
	}

	file, err := os.Create(path)
	if err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("creating %s: %w", filepath.Base(path), err))
	}
	defer file.Close()

	progress := newProgressWriter(size, printer, prefix)
	var writer io.Writer = io.MultiWriter(file, progress)
	if _, err := copyWithContext(ctx, writer, stream); err != nil {
		return wrapCategory(CategoryNetwork, fmt.Errorf("downloading %s stream: %w", streamKind(format), err))
	}
	progress.Finish()
	return nil
}

func streamKind(format *youtube.Format) string {
	if format.AudioChannels > 0 {
		return "audio"
	}
	return "video"
}
