package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// maxFragmentBytes caps the size of a single fragment.
const maxFragmentBytes = 1 << 20

// Fetcher retrieves the markup of a fragment addressed by an absolute URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// StatusError is returned when a fragment source answers with anything other
// than 200.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
}

// HTTPFetcher loads fragments over HTTP, always bypassing caches.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher returns an HTTPFetcher using client, or
// http.DefaultClient when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentBytes))
	if err != nil {
		return "", fmt.Errorf("could not read response body: %w", err)
	}

	return string(body), nil
}

// FSFetcher serves fragments from a file system rooted at the site
// directory; only the path component of the URL is used.
type FSFetcher struct {
	fsys fs.FS
}

var _ Fetcher = (*FSFetcher)(nil)

// NewFSFetcher returns an FSFetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

func (f *FSFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("could not read fragment: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("could not parse url: %w", err)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if !fs.ValidPath(name) || name == "." {
		return "", &StatusError{URL: rawURL, Status: http.StatusNotFound}
	}

	b, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &StatusError{URL: rawURL, Status: http.StatusNotFound}
	}
	if err != nil {
		return "", fmt.Errorf("could not read fragment: %w", err)
	}

	return string(b), nil
}
