// Package loader fetches schema documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/KailasMahavarkar/form-builder/pkg/source"
)

// maxDocumentSize caps remote payloads.
const maxDocumentSize = 4 << 20

var (
	// ErrHTTPDisabled is returned for URL sources when no HTTP client is set.
	ErrHTTPDisabled = errors.New("source loader: http support disabled")
	// ErrNoFileSystem is returned for fs sources when no fs.FS is set.
	ErrNoFileSystem = errors.New("source loader: filesystem is not configured")
	// ErrUnsupportedKind is returned for source kinds the loader cannot read.
	ErrUnsupportedKind = errors.New("source loader: unsupported source kind")
)

// Loader implements source.Loader.
type Loader struct {
	files  fs.FS
	client *http.Client
}

var _ source.Loader = (*Loader)(nil)

// New builds a Loader. An explicit HTTP client is copied and given the
// request timeout when it has none; otherwise a client is created only when
// the HTTP fallback is enabled.
func New(options source.LoaderOptions) *Loader {
	l := &Loader{files: options.FileSystem}
	switch {
	case options.HTTPClient != nil:
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = options.RequestTimeout
		}
		l.client = &client
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: options.RequestTimeout}
	}
	return l
}

// Load fetches the document behind src.
func (l *Loader) Load(ctx context.Context, src source.Source) (source.Document, error) {
	if src == nil {
		return source.Document{}, errors.New("source loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return source.Document{}, err
	}
	if src.Location() == "" {
		return source.Document{}, fmt.Errorf("source loader: %s location is required", src.Kind())
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return source.Document{}, err
	}
	return source.NewDocument(src, data)
}

func (l *Loader) read(ctx context.Context, src source.Source) ([]byte, error) {
	location := src.Location()
	switch src.Kind() {
	case source.KindFile:
		path, err := filepath.Abs(location)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("source loader: read %s: %w", location, err)
		}
		return data, nil

	case source.KindFS:
		if l.files == nil {
			return nil, ErrNoFileSystem
		}
		data, err := fs.ReadFile(l.files, location)
		if err != nil {
			return nil, fmt.Errorf("source loader: read %s: %w", location, err)
		}
		return data, nil

	case source.KindURL:
		if l.client == nil {
			return nil, ErrHTTPDisabled
		}
		return l.fetch(ctx, location)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, src.Kind())
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source loader: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, text/plain;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source loader: get %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("source loader: get %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
