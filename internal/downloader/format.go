package downloader

import (
	"errors"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// pickBestPair selects the highest-quality video-only and audio-only formats
// for a stream-copy mux into an MP4 container. It is a pure function of the
// format list: no fetching, no side effects.
//
// MP4 video and M4A audio are preferred over WebM/Opus at equal quality so
// the mux never has to transcode.
func pickBestPair(formats youtube.FormatList) (video, audio *youtube.Format, err error) {
	for i := range formats {
		f := &formats[i]
		switch {
		case isVideoOnly(f):
			if video == nil || betterVideo(f, video) {
				video = f
			}
		case isAudioOnly(f):
			if audio == nil || betterAudio(f, audio) {
				audio = f
			}
		}
	}
	if video == nil {
		return nil, nil, wrapCategory(CategoryUnsupported, errors.New("no video-only formats available"))
	}
	if audio == nil {
		return nil, nil, wrapCategory(CategoryUnsupported, errors.New("no audio-only formats available"))
	}
	return video, audio, nil
}

func isVideoOnly(f *youtube.Format) bool {
	return f.AudioChannels == 0 && (f.Width > 0 || f.Height > 0)
}

func isAudioOnly(f *youtube.Format) bool {
	return f.AudioChannels > 0 && f.Width == 0 && f.Height == 0
}

func betterVideo(a, b *youtube.Format) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	if ca, cb := isMP4(a), isMP4(b); ca != cb {
		return ca
	}
	if a.FPS != b.FPS {
		return a.FPS > b.FPS
	}
	return bitrateForFormat(a) > bitrateForFormat(b)
}

func betterAudio(a, b *youtube.Format) bool {
	ba, bb := bitrateForFormat(a), bitrateForFormat(b)
	if ba != bb {
		return ba > bb
	}
	if ca, cb := isMP4(a), isMP4(b); ca != cb {
		return ca
	}
	return false
}

// isMP4 reports whether the format's container can be stream-copied into an
// MP4 output (mp4 video, m4a audio).
func isMP4(f *youtube.Format) bool {
	mime := strings.ToLower(f.MimeType)
	return strings.HasPrefix(mime, "video/mp4") || strings.HasPrefix(mime, "audio/mp4")
}

func bitrateForFormat(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return 0
}

func mimeToExt(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(mime, "/")
	if len(parts) == 2 {
		switch parts[1] {
		case "mp4":
			if parts[0] == "audio" {
				return "m4a"
			}
			return "mp4"
		case "3gpp":
			return "3gp"
		default:
			return parts[1]
		}
	}
	return "bin"
}
