// Package dataset fetches the company list document and turns it into a model.CompanyList
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/igusev/cfl/internal/config"
	"github.com/igusev/cfl/internal/logger"
)

// Source fetches the raw company list document.
// This interface enables test doubles while keeping production sources simple.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise
func NewSource(cfg config.SourceConfig) Source {
	if cfg.IsRemote() {
		return NewHTTPSource(cfg.Location, cfg.GetTimeout(), cfg.Retries)
	}
	return &FileSource{Path: cfg.Location}
}

// HTTPSource downloads the document with bounded transport retries
type HTTPSource struct {
	URL    string
	client *retryablehttp.Client
}

// NewHTTPSource creates an HTTP source with timeout and retry limit.
// retries is the number of extra attempts after the first one.
func NewHTTPSource(url string, timeout time.Duration, retries int) *HTTPSource {
	if retries < 0 {
		retries = 0
	}

	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = logger.Leveled()

	return &HTTPSource{URL: url, client: client}
}

// Fetch downloads the document; non-2xx responses are transport failures
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request for %s: %w", ErrTransport, s.URL, err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrTransport, s.URL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTransport, s.URL, err)
	}
	return body, nil
}

func (s *HTTPSource) String() string {
	return s.URL
}

// FileSource reads the document from the local filesystem
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return data, nil
}

func (s *FileSource) String() string {
	return s.Path
}

// StaticSource serves a document held in memory (stdin, tests)
type StaticSource struct {
	Data []byte
	Name string
}

func (s *StaticSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Data, nil
}

func (s *StaticSource) String() string {
	if s.Name == "" {
		return "memory"
	}
	return s.Name
}

// describe names a source for log messages
func describe(src Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
