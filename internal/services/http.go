package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotFound marks a 404 from a catalog or gateway.
	ErrNotFound = errors.New("not found")
	// ErrChallenge marks a Cloudflare challenge page; the request needs a
	// fresh saved browser header to proceed.
	ErrChallenge = errors.New("challenge page returned")
	// ErrTransient marks failures worth retrying on a later run.
	ErrTransient = errors.New("transient failure")
)

// minValidSize guards against writing truncated error pages as cartridges.
const minValidSize = 100

// HTTPClient builds the standard client used by all catalog integrations.
func HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Get issues a GET with the given extra headers and returns the response
// body. Status codes are translated into the package error markers.
func Get(ctx context.Context, client *http.Client, url, userAgent string, headers map[string]string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %v", ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.Header, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable:
		if isChallengePage(body) {
			return nil, resp.Header, fmt.Errorf("%w: %s", ErrChallenge, url)
		}
		return nil, resp.Header, fmt.Errorf("http %d for %s", resp.StatusCode, url)
	case resp.StatusCode >= 400:
		return nil, resp.Header, fmt.Errorf("http %d for %s", resp.StatusCode, url)
	}
	return body, resp.Header, nil
}

// ValidDownload reports whether a payload is plausibly a real file rather
// than a truncated error page.
func ValidDownload(data []byte) bool {
	return len(data) >= minValidSize
}

// LastModified parses a Last-Modified response header. Returns the zero time
// when absent or malformed.
func LastModified(header http.Header) time.Time {
	value := header.Get("Last-Modified")
	if value == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseRawHeaders reads a saved browser header file: one "Key: Value" pair
// per line, '#' comments allowed.
func ParseRawHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}

func isChallengePage(body []byte) bool {
	lowered := strings.ToLower(string(body))
	return strings.Contains(lowered, "cf-challenge") ||
		strings.Contains(lowered, "just a moment") ||
		strings.Contains(lowered, "cloudflare")
}
