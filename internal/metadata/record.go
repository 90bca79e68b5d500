// Package metadata accumulates per-video records for a run and writes them
// out as JSON and CSV once the run is complete.
package metadata

import "unicode"

// Descriptor is the read-only view of a listed video that the recorder
// consumes. A nil ViewCount means the count is unknown, not zero.
type Descriptor struct {
	ID              string
	Title           string
	Description     string
	DurationSeconds int
	ViewCount       *int
}

// Record is one row of the run's metadata output. Hashtags are always
// derived from Title and Description, never supplied by the caller.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
	Duration    int      `json:"duration"`
	ViewCount   *int     `json:"view_count"`
}

// ExtractHashtags scans the given texts in order for #tokens. A token runs
// from the character after '#' while characters are letters, digits or
// underscore in the Unicode sense. Duplicates are dropped case-sensitively,
// first occurrence wins, and the leading '#' is stripped.
func ExtractHashtags(texts ...string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, text := range texts {
		runes := []rune(text)
		for i := 0; i < len(runes); i++ {
			if runes[i] != '#' {
				continue
			}
			j := i + 1
			for j < len(runes) && isTagRune(runes[j]) {
				j++
			}
			if j == i+1 {
				continue
			}
			tag := string(runes[i+1 : j])
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
			i = j - 1
		}
	}
	return tags
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
