package downloader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kkdai/youtube/v2"

	"shortsget/internal/metadata"
)

const (
	metadataJSONName = "shorts_metadata.json"
	metadataCSVName  = "shorts_metadata.csv"
)

// Options describes CLI behavior for a run.
type Options struct {
	OutputDir string
	Limit     int
	Subtitles bool
	Lang      string
	Audio     bool
	Plain     bool
	Quiet     bool
	LogLevel  string
	Timeout   time.Duration
}

// seams for tests: the run loop is exercised without network or ffmpeg
var (
	listShortsFn   = listShorts
	fetchVideoFn   = fetchVideo
	downloadFn     = downloadShort
	writeSubsFn    = writeSubtitleFile
	extractAudioFn = extractAudioTrack
)

func fetchVideo(ctx context.Context, client *youtube.Client, entry *youtube.PlaylistEntry) (*youtube.Video, error) {
	video, err := client.VideoFromPlaylistEntryContext(ctx, entry)
	if err != nil {
		return nil, wrapCategory(CategoryNetwork, fmt.Errorf("fetching video metadata: %w", err))
	}
	return video, nil
}

// Process lists a channel's Shorts, downloads each in order, and writes the
// accumulated metadata files at the end. Per-video failures are reported and
// skipped; the returned error is fatal (bad source, or metadata flush).
func Process(ctx context.Context, rawURL string, opts Options) error {
	printer := newPrinter(opts)
	httpClient := &http.Client{Timeout: opts.Timeout}
	client := &youtube.Client{HTTPClient: httpClient}

	if opts.Audio && !ffmpegAvailable() {
		printer.Log(LogWarn, "warning: ffmpeg not found, -audio extraction will fail")
	}

	playlist, err := listShortsFn(ctx, client, httpClient, rawURL)
	if err != nil {
		return fatal(printer, err)
	}

	entries := playlist.Videos
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	printer.Log(LogInfo, fmt.Sprintf("channel: %s (%d shorts)", playlist.Title, len(entries)))

	if !opts.Plain && !opts.Quiet && isTerminal(os.Stderr) {
		ui := newRunUI(fmt.Sprintf("%s — %d shorts", playlist.Title, len(entries)))
		printer.attachUI(ui)
		defer func() {
			printer.attachUI(nil)
			ui.Stop()
		}()
	}

	recorder := metadata.NewRecorder()
	successes, failures, skips := 0, 0, 0
	var totalBytes int64

	for i, entry := range entries {
		prefix := printer.Prefix(i+1, len(entries), entryTitle(entry))
		if entry == nil || entry.ID == "" {
			printer.ItemSkipped(prefix, "missing playlist entry")
			skips++
			continue
		}

		video, err := fetchVideoFn(ctx, client, entry)
		if err != nil {
			printer.ItemResult(prefix, "", 0, err)
			failures++
			continue
		}

		// Metadata is recorded for every resolved short, whether or not
		// its download succeeds.
		recorder.Record(descriptorFor(video))

		outputPath, bytes, skipped, err := downloadFn(ctx, client, video, opts.OutputDir, printer, prefix)
		if skipped {
			printer.ItemSkipped(prefix, "exists")
			skips++
			continue
		}
		if err != nil {
			printer.ItemResult(prefix, "", 0, err)
			failures++
			continue
		}
		printer.ItemResult(prefix, outputPath, bytes, nil)
		successes++
		totalBytes += bytes

		if opts.Subtitles {
			if err := writeSubsFn(ctx, client, video, outputPath, opts.Lang); err != nil {
				printer.Log(LogWarn, fmt.Sprintf("warning: subtitles for %s: %v", video.ID, err))
			}
		}
		if opts.Audio {
			mp3Path := sidecarPathFor(outputPath, "mp3")
			if err := extractAudioFn(outputPath, mp3Path); err != nil {
				printer.Log(LogWarn, fmt.Sprintf("warning: audio extraction for %s: %v", video.ID, err))
			} else if err := embedID3Tags(mp3Path, video.Title, video.Author, video.PublishDate); err != nil {
				printer.Log(LogWarn, fmt.Sprintf("warning: tagging %s: %v", filepath.Base(mp3Path), err))
			}
		}
	}

	jsonPath := filepath.Join(opts.OutputDir, metadataJSONName)
	csvPath := filepath.Join(opts.OutputDir, metadataCSVName)
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fatal(printer, wrapCategory(CategoryFilesystem, fmt.Errorf("creating output directory: %w", err)))
	}
	if err := recorder.Flush(jsonPath, csvPath); err != nil {
		return fatal(printer, wrapCategory(CategoryFilesystem, err))
	}

	printer.Summary(len(entries), successes, failures, skips, totalBytes)
	printer.Log(LogInfo, fmt.Sprintf("metadata: %s, %s (%d records)", jsonPath, csvPath, recorder.Len()))
	return nil
}

// fatal prints an error that ends the run and marks it so main does not
// print it a second time.
func fatal(printer *Printer, err error) error {
	printer.Log(LogError, fmt.Sprintf("error: %v", err))
	return markReported(err)
}

func descriptorFor(video *youtube.Video) metadata.Descriptor {
	d := metadata.Descriptor{
		ID:              video.ID,
		Title:           video.Title,
		Description:     video.Description,
		DurationSeconds: int(video.Duration.Seconds()),
	}
	// The backend reports 0 both for unknown and for genuinely zero view
	// counts; treat 0 as unknown rather than inventing a count.
	if video.Views > 0 {
		views := video.Views
		d.ViewCount = &views
	}
	return d
}

func entryTitle(entry *youtube.PlaylistEntry) string {
	if entry == nil {
		return ""
	}
	if entry.Title != "" {
		return entry.Title
	}
	return entry.ID
}
