// Package downloader fetches sequence inputs given as http(s) URLs so they
// can be annotated like local files.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "smashrun/1.0"

type Client interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient() *HTTPClient {
	return NewHTTPClientWithTimeout(30 * time.Minute)
}

func NewHTTPClientWithTimeout(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

func (c *HTTPClient) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d for %s", resp.StatusCode, url)
	}

	return &responseWrapper{
		ReadCloser: resp.Body,
		url:        url,
	}, nil
}

type responseWrapper struct {
	io.ReadCloser
	url string
}

func (w *responseWrapper) Read(p []byte) (n int, err error) {
	n, err = w.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("failed to read from %s: %w", w.url, err)
	}
	return n, err
}

// IsRemote reports whether input is an http or https URL.
func IsRemote(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FileName is the local name used for a remote input.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("URL %q does not name a file", rawURL)
	}
	return name, nil
}

// Fetch saves rawURL into dir and returns the local path. A file already
// present under the same name is reused.
func Fetch(ctx context.Context, c Client, rawURL, dir string) (string, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	dst := filepath.Join(dir, name)
	if info, err := os.Stat(dst); err == nil && info.Mode().IsRegular() {
		return dst, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir %s: %w", dir, err)
	}

	body, err := c.Download(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	part, err := os.CreateTemp(dir, "."+strings.TrimPrefix(name, ".")+".*.part")
	if err != nil {
		return "", fmt.Errorf("create partial file: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		part.Close()
		os.Remove(part.Name())
		return "", err
	}
	if err := part.Close(); err != nil {
		os.Remove(part.Name())
		return "", fmt.Errorf("close partial file: %w", err)
	}
	if err := os.Rename(part.Name(), dst); err != nil {
		os.Remove(part.Name())
		return "", fmt.Errorf("move download into place: %w", err)
	}
	return dst, nil
}
