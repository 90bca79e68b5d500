package downloader

import (
	"bytes"
	"fmt"
	"os"
)

// validateMP4 sanity-checks a muxed output file: non-empty, an ftyp box up
// front, and a moov or moof atom within the first megabyte.
func validateMP4(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("stat output: %w", err))
	}
	if info.Size() == 0 {
		return wrapCategory(CategoryMux, fmt.Errorf("output file is empty"))
	}

	header, err := readHeader(path, 12)
	if err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("read mp4 header: %w", err))
	}
	if len(header) < 8 || string(header[4:8]) != "ftyp" {
		return wrapCategory(CategoryMux, fmt.Errorf("invalid mp4 header"))
	}
	body, err := readHeader(path, 1024*1024)
	if err != nil {
		return wrapCategory(CategoryFilesystem, fmt.Errorf("read mp4 body: %w", err))
	}
	if !bytes.Contains(body, []byte("moov")) && !bytes.Contains(body, []byte("moof")) {
		return wrapCategory(CategoryMux, fmt.Errorf("missing moov/moof atom"))
	}
	return nil
}

func readHeader(path string, size int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	buf := make([]byte, size)
	n, err := file.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
