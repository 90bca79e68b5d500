package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeChannelURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/@somebody", "https://www.youtube.com/@somebody/shorts"},
		{"https://youtube.com/@somebody/shorts", "https://www.youtube.com/@somebody/shorts"},
		{"https://www.youtube.com/@somebody/shorts/", "https://www.youtube.com/@somebody/shorts"},
		{"https://m.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw/shorts"},
		{"https://www.youtube.com/c/somename?si=abc", "https://www.youtube.com/c/somename/shorts"},
	}
	for _, tc := range cases {
		got, err := normalizeChannelURL(tc.in)
		if err != nil {
			t.Fatalf("normalizeChannelURL(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("normalizeChannelURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeChannelURLRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"",
		"not a url",
		"ftp://youtube.com/@somebody",
		"https://example.com/@somebody",
		"https://www.youtube.com/",
	} {
		_, err := normalizeChannelURL(in)
		if err == nil {
			t.Fatalf("normalizeChannelURL(%q): expected error", in)
		}
		if errorCategory(err) != CategoryInvalidURL {
			t.Fatalf("normalizeChannelURL(%q): category %q, want invalid_url", in, errorCategory(err))
		}
	}
}

func TestShortsPlaylistID(t *testing.T) {
	got, err := shortsPlaylistID("UCuAXFkgsw1L7xaCfnd5JJOw")
	if err != nil {
		t.Fatalf("shortsPlaylistID: %v", err)
	}
	if got != "UUSHuAXFkgsw1L7xaCfnd5JJOw" {
		t.Fatalf("got %q", got)
	}
	if _, err := shortsPlaylistID("PL123"); err == nil {
		t.Fatalf("expected error for non-channel id")
	}
}

func TestResolveChannelIDFromPath(t *testing.T) {
	id, err := resolveChannelID(context.Background(), http.DefaultClient,
		"https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw/shorts")
	if err != nil {
		t.Fatalf("resolveChannelID: %v", err)
	}
	if id != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Fatalf("got %q", id)
	}
}

func TestResolveChannelIDFromPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><script>var ytInitialData = {"channelId":"UCuAXFkgsw1L7xaCfnd5JJOw"}</script></html>`)
	}))
	defer server.Close()

	id, err := resolveChannelID(context.Background(), server.Client(), server.URL+"/@somebody/shorts")
	if err != nil {
		t.Fatalf("resolveChannelID: %v", err)
	}
	if id != "UCuAXFkgsw1L7xaCfnd5JJOw" {
		t.Fatalf("got %q", id)
	}
}

func TestResolveChannelIDNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("<p>nothing here</p>", 10))
	}))
	defer server.Close()

	_, err := resolveChannelID(context.Background(), server.Client(), server.URL+"/@somebody/shorts")
	if err == nil {
		t.Fatalf("expected error for page without channel id")
	}
	if errorCategory(err) != CategoryInvalidURL {
		t.Fatalf("category %q, want invalid_url", errorCategory(err))
	}
}

func TestResolveChannelIDStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := resolveChannelID(context.Background(), server.Client(), server.URL+"/@gone/shorts")
	if err == nil {
		t.Fatalf("expected error for 404 channel page")
	}
	if errorCategory(err) != CategoryInvalidURL {
		t.Fatalf("category %q, want invalid_url", errorCategory(err))
	}
}
