// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil downloads documents over HTTP.
package httputil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultMaxRetries = 4
	defaultBaseDelay  = 2 * time.Second
	defaultUserAgent  = "persona-engine"
)

// StatusError reports a response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Fetcher issues GET requests and retries responses that ask the client to
// come back later (429 and 503) with exponential backoff. A Retry-After
// header given in seconds replaces the computed delay.
type Fetcher struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// NewFetcher returns a Fetcher with default settings.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:     &http.Client{Timeout: 2 * time.Minute},
		UserAgent:  defaultUserAgent,
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
	}
}

// Get returns the 200 response for url. The caller closes the body.
func (f *Fetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent())

	for attempt := 0; ; attempt++ {
		resp, err := f.client().Do(req.Clone(ctx))
		if err != nil {
			return nil, fmt.Errorf("HTTP request: %w", err)
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if !retryable(resp.StatusCode) || attempt >= f.maxRetries() {
			return nil, &StatusError{URL: url, Code: resp.StatusCode}
		}

		delay := f.backoff(attempt, resp.Header.Get("Retry-After"))
		f.logger().Info("retrying download", "url", url, "status", resp.StatusCode,
			"delay", delay, "attempt", attempt+1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Download writes the body of url to a new temporary file in dir whose
// name matches pattern (see os.CreateTemp) and returns its path. The caller
// removes the file.
func (f *Fetcher) Download(ctx context.Context, url, dir, pattern string) (string, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	return tmpPath, nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

func (f *Fetcher) backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	base := f.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	return base << attempt
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return defaultUserAgent
}

func (f *Fetcher) maxRetries() int {
	if f.MaxRetries > 0 {
		return f.MaxRetries
	}
	return defaultMaxRetries
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
