package downloader

import (
	"strconv"
	"time"

	id3v2 "github.com/bogem/id3v2/v2"
)

// embedID3Tags writes title/artist/year ID3v2 frames into an extracted MP3.
func embedID3Tags(mp3Path, title, artist string, published time.Time) error {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	if !published.IsZero() {
		tag.AddTextFrame(tag.CommonID("Year"), tag.DefaultEncoding(), strconv.Itoa(published.Year()))
	}
	return tag.Save()
}
