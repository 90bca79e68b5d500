package metadata

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWriter stages writes in a temp file in the target's directory and
// renames it over the target on commit, so the target is never observed
// half-written.
type atomicWriter struct {
	path    string
	tmpPath string
	file    *os.File
}

func newAtomicWriter(path string) (*atomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".shortsget-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &atomicWriter{path: path, tmpPath: tmp.Name(), file: tmp}, nil
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *atomicWriter) Commit() error {
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (w *atomicWriter) Abort() {
	w.file.Close()
	os.Remove(w.tmpPath)
}
