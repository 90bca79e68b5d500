package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"

	"shortsget/internal/metadata"
)

func stubListShorts(entries ...*youtube.PlaylistEntry) func(context.Context, *youtube.Client, *http.Client, string) (*youtube.Playlist, error) {
	return func(context.Context, *youtube.Client, *http.Client, string) (*youtube.Playlist, error) {
		return &youtube.Playlist{ID: "UUSHtest", Title: "Test Channel", Videos: entries}, nil
	}
}

func stubFetchVideo(ctx context.Context, client *youtube.Client, entry *youtube.PlaylistEntry) (*youtube.Video, error) {
	return &youtube.Video{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: "clip #fyp",
		Duration:    30 * time.Second,
		Views:       100,
	}, nil
}

func TestProcessContinuesPastMuxFailure(t *testing.T) {
	dir := t.TempDir()

	origList, origFetch, origDownload := listShortsFn, fetchVideoFn, downloadFn
	defer func() {
		listShortsFn, fetchVideoFn, downloadFn = origList, origFetch, origDownload
	}()

	listShortsFn = stubListShorts(
		&youtube.PlaylistEntry{ID: "v1", Title: "First #a"},
		&youtube.PlaylistEntry{ID: "v2", Title: "Second #b"},
		&youtube.PlaylistEntry{ID: "v3", Title: "Third #c"},
	)
	fetchVideoFn = stubFetchVideo
	downloadFn = func(ctx context.Context, client *youtube.Client, video *youtube.Video, outDir string, printer *Printer, prefix string) (string, int64, bool, error) {
		if video.ID == "v2" {
			return "", 0, false, wrapCategory(CategoryMux, errors.New("ffmpeg exited with status 1"))
		}
		path := outputPathFor(outDir, video.Title, "mp4")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", 0, false, err
		}
		if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
			return "", 0, false, err
		}
		return path, 5, false, nil
	}

	opts := Options{OutputDir: dir, Quiet: true, Plain: true, Timeout: time.Second}
	if err := Process(context.Background(), "https://www.youtube.com/@test", opts); err != nil {
		t.Fatalf("Process: %v (per-video mux failures must not fail the run)", err)
	}

	// two media files, three metadata records
	media, err := filepath.Glob(filepath.Join(dir, "*.mp4"))
	if err != nil || len(media) != 2 {
		t.Fatalf("expected 2 media files, got %v", media)
	}
	data, err := os.ReadFile(filepath.Join(dir, "shorts_metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var records []metadata.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records (metadata recorded regardless of download outcome), got %d", len(records))
	}
	if records[1].ID != "v2" || len(records[1].Hashtags) == 0 {
		t.Fatalf("failed video's record incomplete: %+v", records[1])
	}
	if _, err := os.Stat(filepath.Join(dir, "shorts_metadata.csv")); err != nil {
		t.Fatalf("csv missing: %v", err)
	}
}

func TestProcessRespectsLimit(t *testing.T) {
	dir := t.TempDir()

	origList, origFetch, origDownload := listShortsFn, fetchVideoFn, downloadFn
	defer func() {
		listShortsFn, fetchVideoFn, downloadFn = origList, origFetch, origDownload
	}()

	var downloaded []string
	listShortsFn = stubListShorts(
		&youtube.PlaylistEntry{ID: "v1", Title: "First"},
		&youtube.PlaylistEntry{ID: "v2", Title: "Second"},
		&youtube.PlaylistEntry{ID: "v3", Title: "Third"},
	)
	fetchVideoFn = stubFetchVideo
	downloadFn = func(ctx context.Context, client *youtube.Client, video *youtube.Video, outDir string, printer *Printer, prefix string) (string, int64, bool, error) {
		downloaded = append(downloaded, video.ID)
		return outputPathFor(outDir, video.Title, "mp4"), 1, false, nil
	}

	opts := Options{OutputDir: dir, Limit: 2, Quiet: true, Plain: true}
	if err := Process(context.Background(), "https://www.youtube.com/@test", opts); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(downloaded) != 2 || downloaded[0] != "v1" || downloaded[1] != "v2" {
		t.Fatalf("limit not honored: %v", downloaded)
	}
}

func TestProcessInvalidSourceIsFatal(t *testing.T) {
	opts := Options{OutputDir: t.TempDir(), Quiet: true, Plain: true, Timeout: time.Second}
	err := Process(context.Background(), "https://example.com/nope", opts)
	if err == nil {
		t.Fatalf("expected fatal error for non-YouTube URL")
	}
	if ExitCode(err) != 2 {
		t.Fatalf("exit code %d, want 2", ExitCode(err))
	}
	if !IsReported(err) {
		t.Fatalf("fatal error must be marked reported after printing")
	}
}

func TestProcessFlushFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "out")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	origList, origFetch, origDownload := listShortsFn, fetchVideoFn, downloadFn
	defer func() {
		listShortsFn, fetchVideoFn, downloadFn = origList, origFetch, origDownload
	}()
	listShortsFn = stubListShorts(&youtube.PlaylistEntry{ID: "v1", Title: "First"})
	fetchVideoFn = stubFetchVideo
	downloadFn = func(ctx context.Context, client *youtube.Client, video *youtube.Video, outDir string, printer *Printer, prefix string) (string, int64, bool, error) {
		return "", 0, false, wrapCategory(CategoryNetwork, fmt.Errorf("offline"))
	}

	// output "directory" is a regular file, so the metadata flush must fail
	opts := Options{OutputDir: blocked, Quiet: true, Plain: true}
	err := Process(context.Background(), "https://www.youtube.com/@test", opts)
	if err == nil {
		t.Fatalf("expected persistence failure to be fatal")
	}
	if ExitCode(err) != 3 {
		t.Fatalf("exit code %d, want 3", ExitCode(err))
	}
	if !IsReported(err) {
		t.Fatalf("fatal error must be marked reported after printing")
	}
}

func TestDescriptorForUnknownViews(t *testing.T) {
	video := &youtube.Video{ID: "v", Title: "T", Duration: 42 * time.Second}
	d := descriptorFor(video)
	if d.ViewCount != nil {
		t.Fatalf("expected nil view count for unknown views")
	}
	if d.DurationSeconds != 42 {
		t.Fatalf("duration %d, want 42", d.DurationSeconds)
	}

	video.Views = 7
	d = descriptorFor(video)
	if d.ViewCount == nil || *d.ViewCount != 7 {
		t.Fatalf("expected view count 7, got %+v", d.ViewCount)
	}
}
