package downloader

import (
	"fmt"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ffmpegAvailable checks if ffmpeg is installed and accessible
func ffmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// muxStreams combines a video-only and an audio-only stream into one MP4.
// Both tracks are stream-copied; nothing is re-encoded.
func muxStreams(videoPath, audioPath, outputPath string) error {
	err := ffmpeg.Output(
		[]*ffmpeg.Stream{ffmpeg.Input(videoPath), ffmpeg.Input(audioPath)},
		outputPath,
		ffmpeg.KwArgs{"c:v": "copy", "c:a": "copy", "movflags": "+faststart"},
	).OverWriteOutput().Silent(true).Run()
	if err != nil {
		return wrapCategory(CategoryMux, fmt.Errorf("ffmpeg mux: %w", err))
	}
	return nil
}

// extractAudioTrack extracts the audio of a muxed file into an MP3.
func extractAudioTrack(mediaPath, mp3Path string) error {
	err := ffmpeg.Input(mediaPath).
		Output(mp3Path, ffmpeg.KwArgs{"vn": "", "acodec": "libmp3lame", "q:a": "2"}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return wrapCategory(CategoryMux, fmt.Errorf("ffmpeg audio extraction: %w", err))
	}
	return nil
}
