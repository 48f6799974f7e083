package csvload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultMaxBytes bounds the size of a resource body.
const DefaultMaxBytes int64 = 64 << 20

// SkipReason classifies a dropped row.
type SkipReason string

const (
	// SkipFieldCount: the row's field count differs from the header's.
	SkipFieldCount SkipReason = "field_count"
	// SkipTransformError: the transform returned an error or panicked.
	SkipTransformError SkipReason = "transform_error"
	// SkipFiltered: the transform discarded the row.
	SkipFiltered SkipReason = "filtered"
)

// Observer receives load events. Implementations must be safe for
// concurrent use.
type Observer interface {
	RowSkipped(path string, reason SkipReason)
	LoadCompleted(path string, records int, duration time.Duration)
	LoadFailed(path string, err error)
}

type nopObserver struct{}

func (nopObserver) RowSkipped(string, SkipReason)            {}
func (nopObserver) LoadCompleted(string, int, time.Duration) {}
func (nopObserver) LoadFailed(string, error)                 {}

// Loader holds what a load needs besides its per-call options.
// A Loader is safe for concurrent use; loads share no mutable state.
type Loader struct {
	fetcher  Fetcher
	logger   *slog.Logger
	observer Observer
	maxBytes int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for row warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver sets the observer notified of load events.
func WithObserver(o Observer) LoaderOption {
	return func(l *Loader) {
		if o != nil {
			l.observer = o
		}
	}
}

// WithMaxBytes limits the resource body size.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New creates a Loader that retrieves resources through fetcher.
func New(fetcher Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		logger:   slog.Default(),
		observer: nopObserver{},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadRows loads path without a transform and returns the raw rows.
func LoadRows(ctx context.Context, l *Loader, path string, required ...string) ([]Row, error) {
	return Load(ctx, l, path, Options[Row]{RequiredColumns: required})
}

// Load fetches path, validates it, and returns the transformed records in
// file order.
//
// It fails with *FetchError, *InsufficientDataError, *MissingColumnsError
// or *EmptyResultError. Malformed rows and rows whose transform fails are
// logged and skipped.
func Load[T any](ctx context.Context, l *Loader, path string, opts Options[T]) ([]T, error) {
	transform := opts.Transform
	if transform == nil {
		if _, ok := any(Row{}).(T); !ok {
			return nil, ErrTransformRequired
		}
		transform = func(r Row) (T, bool, error) {
			return any(r).(T), true, nil
		}
	}

	start := time.Now()

	doc, err := l.read(ctx, path, opts.RequiredColumns)
	if err != nil {
		l.fail(ctx, path, err)
		return nil, err
	}

	records := make([]T, 0, len(doc.lines)-1)
	for i := 1; i < len(doc.lines); i++ {
		if err := ctx.Err(); err != nil {
			l.fail(ctx, path, err)
			return nil, err
		}

		values := ParseLine(doc.lines[i])
		if len(values) != len(doc.header) {
			l.logger.WarnContext(ctx, "skipping row with wrong field count",
				"path", path,
				"row", i,
				"got", len(values),
				"want", len(doc.header))
			l.observer.RowSkipped(path, SkipFieldCount)
			continue
		}

		record, ok, err := applyTransform(transform, newRow(doc.header, values))
		if err != nil {
			l.logger.WarnContext(ctx, "skipping row that failed to transform",
				"path", path,
				"row", i,
				"error", err)
			l.observer.RowSkipped(path, SkipTransformError)
			continue
		}
		if !ok {
			l.observer.RowSkipped(path, SkipFiltered)
			continue
		}

		records = append(records, record)
	}

	if len(records) == 0 {
		err := &EmptyResultError{Path: path, Rows: len(doc.lines) - 1}
		l.fail(ctx, path, err)
		return nil, err
	}

	l.observer.LoadCompleted(path, len(records), time.Since(start))
	return records, nil
}

type document struct {
	header []string
	lines  []string
}

// read fetches the resource and validates everything that precedes row
// processing: body size, line count, and required columns.
func (l *Loader) read(ctx context.Context, path string, required []string) (*document, error) {
	body, err := l.fetcher.Fetch(ctx, path)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{Path: path, Err: err}
		}
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, l.maxBytes+1))
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(data)) > l.maxBytes {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("body exceeds %d bytes", l.maxBytes)}
	}

	lines := splitLines(string(data))
	if n := countNonEmpty(lines); n < 2 {
		return nil, &InsufficientDataError{Path: path, Lines: n}
	}

	header := ParseLine(lines[0])
	for i, h := range header {
		header[i] = trimField(h)
	}

	if missing := missingColumns(required, header); len(missing) > 0 {
		return nil, &MissingColumnsError{Path: path, Missing: missing}
	}

	return &document{header: header, lines: lines}, nil
}

func (l *Loader) fail(ctx context.Context, path string, err error) {
	l.logger.ErrorContext(ctx, "error loading CSV", "path", path, "error", err)
	l.observer.LoadFailed(path, err)
}

// missingColumns returns required names absent from header, in required order.
func missingColumns(required, header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func applyTransform[T any](fn TransformFunc[T], row Row) (record T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()
	return fn(row)
}
