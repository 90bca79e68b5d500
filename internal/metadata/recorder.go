package metadata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var csvHeader = []string{"id", "title", "description", "hashtags", "duration", "view_count"}

// Recorder accumulates one Record per processed video, in insertion order.
// It is owned by the run loop and is not safe for concurrent use.
type Recorder struct {
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record derives hashtags from the descriptor's title and description and
// appends a record to the collection. It never fails; text without hashtags
// yields an empty list.
func (r *Recorder) Record(d Descriptor) {
	r.records = append(r.records, Record{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Hashtags:    ExtractHashtags(d.Title, d.Description),
		Duration:    d.DurationSeconds,
		ViewCount:   d.ViewCount,
	})
}

// Len reports the number of accumulated records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Records returns the accumulated records in insertion order.
func (r *Recorder) Records() []Record {
	return r.records
}

// Flush serializes the whole collection to jsonPath and csvPath. Each file
// is staged in a temp file and renamed into place, so a failed flush leaves
// no partial output. Flushing an unchanged collection twice produces
// byte-identical files.
func (r *Recorder) Flush(jsonPath, csvPath string) error {
	if err := r.writeJSON(jsonPath); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	if err := r.writeCSV(csvPath); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}
	return nil
}

func (r *Recorder) writeJSON(path string) error {
	w, err := newAtomicWriter(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	records := r.records
	if records == nil {
		records = []Record{}
	}
	if err := enc.Encode(records); err != nil {
		w.Abort()
		return err
	}
	return w.Commit()
}

func (r *Recorder) writeCSV(path string) error {
	w, err := newAtomicWriter(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		w.Abort()
		return err
	}
	for _, rec := range r.records {
		viewCount := ""
		if rec.ViewCount != nil {
			viewCount = strconv.Itoa(*rec.ViewCount)
		}
		row := []string{
			rec.ID,
			rec.Title,
			rec.Description,
			strings.Join(rec.Hashtags, " "),
			strconv.Itoa(rec.Duration),
			viewCount,
		}
		if err := cw.Write(row); err != nil {
			w.Abort()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		w.Abort()
		return err
	}
	return w.Commit()
}
