package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/ward-profiles/internal/storage"
)

// StatusError reports a non-200 response for the resource URL.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Result describes a file written by Download.
type Result struct {
	URL         string `json:"url"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	SHA256      string `json:"sha256"`
}

// Downloader fetches resources with a single GET each.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// New creates a Downloader. A zero timeout leaves requests bounded only by
// the context.
func New(timeout time.Duration, userAgent string) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Download fetches url and writes the body to path, creating the parent
// directory if needed. Nothing is written unless the server answers 200.
func (d *Downloader) Download(ctx context.Context, url, path string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	path, err = storage.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	n, err := storage.WriteFile(path, io.TeeReader(resp.Body, h))
	if err != nil {
		return nil, fmt.Errorf("saving resource: %w", err)
	}

	return &Result{
		URL:         url,
		Path:        path,
		Size:        n,
		ContentType: resp.Header.Get("Content-Type"),
		SHA256:      hex.EncodeToString(h.Sum(nil)),
	}, nil
}
