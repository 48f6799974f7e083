package csvload

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransformRequired is returned when Options.Transform is nil and the
// record type is not Row.
var ErrTransformRequired = errors.New("csvload: transform is required unless records are csvload.Row")

// FetchError reports that a resource could not be retrieved.
type FetchError struct {
	Path string

	// StatusCode and Status are set when the source answered with a
	// failure status (HTTP, or 404 for a missing file).
	StatusCode int
	Status     string

	// Err is the underlying cause, if any.
	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load file: %s (%s)", e.Path, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to load file: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to load file: %s", e.Path)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InsufficientDataError reports a resource without a header and at least one data line.
type InsufficientDataError struct {
	Path  string
	Lines int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("file contains insufficient data: %s (%d non-empty line(s), need a header and at least one row)",
		e.Path, e.Lines)
}

// MissingColumnsError lists required columns absent from the header.
type MissingColumnsError struct {
	Path    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns in %s: %s", e.Path, strings.Join(e.Missing, ", "))
}

// EmptyResultError reports that no data row survived parsing and transformation.
type EmptyResultError struct {
	Path string

	// Rows is the number of data lines that were examined.
	Rows int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no valid data rows found in file: %s (%d row(s) examined)", e.Path, e.Rows)
}

// ErrorKind names the class of a load error for metrics and HTTP responses.
func ErrorKind(err error) string {
	var (
		fetchErr        *FetchError
		insufficientErr *InsufficientDataError
		missingErr      *MissingColumnsError
		emptyErr        *EmptyResultError
	)
	switch {
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &insufficientErr):
		return "insufficient_data"
	case errors.As(err, &missingErr):
		return "missing_columns"
	case errors.As(err, &emptyErr):
		return "empty_result"
	default:
		return "other"
	}
}
