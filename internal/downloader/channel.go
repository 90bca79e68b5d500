package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var (
	channelPathRegex = regexp.MustCompile(`^/channel/(UC[A-Za-z0-9_-]{22})`)
	channelIDRegex   = regexp.MustCompile(`"(?:channelId|externalId)":"(UC[A-Za-z0-9_-]{22})"`)
)

// maximum bytes of channel page HTML scanned for the channel ID
const channelPageScanLimit = 2 << 20

// normalizeChannelURL validates the input and points it at the channel's
// Shorts tab, appending the /shorts suffix when missing.
func normalizeChannelURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("invalid URL: %w", err))
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("invalid URL: missing scheme or host"))
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme))
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host != "youtube.com" && host != "m.youtube.com" {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("not a YouTube channel URL: %s", raw))
	}
	parsed.Scheme = "https"
	parsed.Host = "www.youtube.com"
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("not a channel URL: %s", raw))
	}
	if !strings.HasSuffix(parsed.Path, "/shorts") {
		parsed.Path += "/shorts"
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), nil
}

// resolveChannelID extracts the UC id from a /channel/ URL directly, and
// otherwise fetches the channel page and scans it for the canonical id.
func resolveChannelID(ctx context.Context, client *http.Client, channelURL string) (string, error) {
	parsed, err := url.Parse(channelURL)
	if err != nil {
		return "", wrapCategory(CategoryInvalidURL, err)
	}
	if m := channelPathRegex.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
	if err != nil {
		return "", wrapCategory(CategoryInvalidURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", wrapCategory(CategoryNetwork, fmt.Errorf("fetching channel page: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("channel page returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, channelPageScanLimit))
	if err != nil {
		return "", wrapCategory(CategoryNetwork, fmt.Errorf("reading channel page: %w", err))
	}
	if m := channelIDRegex.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("no channel id found at %s", channelURL))
}

// shortsPlaylistID maps a channel id to its Shorts auto-playlist. YouTube
// exposes a channel's Shorts as playlist "UUSH" + the UC id suffix.
func shortsPlaylistID(channelID string) (string, error) {
	if !strings.HasPrefix(channelID, "UC") || len(channelID) != 24 {
		return "", wrapCategory(CategoryInvalidURL, fmt.Errorf("malformed channel id: %q", channelID))
	}
	return "UUSH" + channelID[2:], nil
}

// listShorts resolves the channel URL to its Shorts playlist and returns the
// playlist entries, most recent first. Re-invoking re-queries the backend.
func listShorts(ctx context.Context, client *youtube.Client, httpClient *http.Client, rawURL string) (*youtube.Playlist, error) {
	channelURL, err := normalizeChannelURL(rawURL)
	if err != nil {
		return nil, err
	}
	channelID, err := resolveChannelID(ctx, httpClient, channelURL)
	if err != nil {
		return nil, err
	}
	playlistID, err := shortsPlaylistID(channelID)
	if err != nil {
		return nil, err
	}
	playlist, err := client.GetPlaylistContext(ctx, playlistID)
	if err != nil {
		return nil, wrapCategory(CategoryInvalidURL, fmt.Errorf("fetching shorts listing for %s: %w", channelID, err))
	}
	if playlist.Title == "" {
		playlist.Title = "Shorts"
	}
	return playlist, nil
}
