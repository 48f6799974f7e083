package csvload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves a resource by path or URL.
// Implementations return *FetchError when the resource is unavailable.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
}

// HTTPFetcher retrieves resources over HTTP.
type HTTPFetcher struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// NewHTTPFetcher creates an HTTP fetcher. Relative paths are resolved
// against baseURL; an empty baseURL accepts absolute URLs only.
func NewHTTPFetcher(baseURL string, timeout time.Duration) (*HTTPFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	f := &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		f.baseURL = u
	}

	return f, nil
}

// Fetch issues a GET for path and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := f.resolve(path)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", "chartcsv")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("request failed: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		_ = resp.Body.Close()
		return nil, &FetchError{Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp.Body, nil
}

func (f *HTTPFetcher) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if f.baseURL == nil {
		return "", errors.New("relative path without a base url")
	}
	return f.baseURL.ResolveReference(ref).String(), nil
}

// FileFetcher reads resources from the local filesystem.
type FileFetcher struct {
	root string
}

// NewFileFetcher creates a fetcher that resolves relative paths under root.
func NewFileFetcher(root string) *FileFetcher {
	return &FileFetcher{root: root}
}

// Fetch opens the file at path.
func (f *FileFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}

	name := path
	if f.root != "" && !filepath.IsAbs(name) {
		name = filepath.Join(f.root, filepath.FromSlash(name))
	}

	file, err := os.Open(name) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FetchError{
				Path:       path,
				StatusCode: http.StatusNotFound,
				Status:     fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)),
				Err:        err,
			}
		}
		return nil, &FetchError{Path: path, Err: err}
	}

	info, err := file.Stat()
	if err == nil && info.IsDir() {
		_ = file.Close()
		return nil, &FetchError{Path: path, Err: fmt.Errorf("%s is a directory", name)}
	}

	return file, nil
}

// SourceFetcher routes http(s) URLs to HTTP and everything else to files.
type SourceFetcher struct {
	http *HTTPFetcher
	file *FileFetcher
}

// NewSourceFetcher builds a fetcher for source, which is either a base URL
// or a directory. Absolute URLs are always fetched over HTTP.
func NewSourceFetcher(source string, timeout time.Duration) (*SourceFetcher, error) {
	if IsURL(source) {
		h, err := NewHTTPFetcher(source, timeout)
		if err != nil {
			return nil, err
		}
		return &SourceFetcher{http: h}, nil
	}

	h, err := NewHTTPFetcher("", timeout)
	if err != nil {
		return nil, err
	}
	return &SourceFetcher{http: h, file: NewFileFetcher(source)}, nil
}

// Fetch retrieves path from the matching backend.
func (f *SourceFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if f.file == nil || IsURL(path) {
		return f.http.Fetch(ctx, path)
	}
	return f.file.Fetch(ctx, path)
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
