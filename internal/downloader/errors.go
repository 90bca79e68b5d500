package downloader

import "errors"

// ErrorCategory classifies failures for exit-code mapping and for deciding
// whether a failure aborts the run or only the current short.
type ErrorCategory string

const (
	// CategoryInvalidURL covers input that does not resolve to a channel
	// Shorts listing. Fatal before any processing.
	CategoryInvalidURL ErrorCategory = "invalid_url"
	// CategoryUnsupported covers videos with no eligible stream pair.
	// Recovered by skipping the video.
	CategoryUnsupported ErrorCategory = "unsupported"
	// CategoryNetwork covers transport failures while fetching a stream.
	// Recovered by skipping the video.
	CategoryNetwork ErrorCategory = "network"
	// CategoryMux covers a non-zero exit from the mux step. Recovered by
	// skipping the video.
	CategoryMux ErrorCategory = "mux"
	// CategoryFilesystem covers output-file failures, including the final
	// metadata flush. Fatal when the flush fails.
	CategoryFilesystem ErrorCategory = "filesystem"
)

// CategorizedError attaches an ErrorCategory to an underlying error.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e CategorizedError) Error() string {
	return string(e.Category) + ": " + e.Err.Error()
}

func (e CategorizedError) Unwrap() error {
	return e.Err
}

func wrapCategory(category ErrorCategory, err error) error {
	if err == nil {
		return nil
	}
	return CategorizedError{Category: category, Err: err}
}

func errorCategory(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}

// ExitCode maps an error to the process exit code. Per-video categories
// never reach this mapping on a completed run; only fatal errors do.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errorCategory(err) {
	case CategoryInvalidURL:
		return 2
	case CategoryFilesystem:
		return 3
	case CategoryNetwork:
		return 4
	default:
		return 1
	}
}

type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

func markReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported returns true if the error has already been printed to stderr.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}
