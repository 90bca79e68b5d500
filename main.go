package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shortsget/internal/downloader"
)

func main() {
	var opts downloader.Options

	flag.StringVar(&opts.OutputDir, "o", "downloads", "output directory for media and metadata files")
	flag.IntVar(&opts.Limit, "limit", 0, "max shorts to process (0 = all)")
	flag.BoolVar(&opts.Subtitles, "subs", false, "write .srt transcript sidecars")
	flag.StringVar(&opts.Lang, "lang", "en", "transcript language for -subs")
	flag.BoolVar(&opts.Audio, "audio", false, "also extract tagged MP3 audio per short")
	flag.BoolVar(&opts.Plain, "plain", false, "disable the interactive progress UI")
	flag.BoolVar(&opts.Quiet, "quiet", false, "suppress progress output (errors still shown)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.DurationVar(&opts.Timeout, "timeout", 3*time.Minute, "per-request timeout")
	flag.Parse()

	channelURL := ""
	if args := flag.Args(); len(args) > 0 {
		channelURL = args[0]
	} else {
		channelURL = promptChannelURL()
	}
	if channelURL == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [options] <channel-url>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := downloader.Process(context.Background(), channelURL, opts); err != nil {
		if !downloader.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(downloader.ExitCode(err))
	}
}

// promptChannelURL asks for the URL interactively when none was given on
// the command line. Non-interactive stdin gets no prompt.
func promptChannelURL() string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return ""
	}
	fmt.Fprint(os.Stderr, "Enter YouTube channel Shorts URL (e.g. https://www.youtube.com/@name/shorts): ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
