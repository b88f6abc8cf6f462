package tic80

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cartshelf/internal/cart"
	"cartshelf/internal/logging"
	"cartshelf/internal/services"
)

// BaseURL is the production site.
const BaseURL = "https://tic80.com"

// Categories lists the site's directory sections in fetch order.
var Categories = []string{"Games", "WIP", "Demoscene", "Livecoding", "Music", "Tech", "Tools"}

// Listing is one entry from a category directory.
type Listing struct {
	Name     string
	MD5      string
	ID       string
	Filename string
}

// Client fetches listings, play pages, cartridges, and covers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	headers    map[string]string
	logger     *slog.Logger
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the site root, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHeaders sets extra request headers sent with every call.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// NewClient builds a tic80.com client.
func NewClient(logger *slog.Logger, userAgent string, timeout time.Duration, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Client{
		httpClient: services.HTTPClient(timeout),
		baseURL:    BaseURL,
		userAgent:  userAgent,
		logger:     logging.NewComponentLogger(logger, "tic80"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CartURL returns the direct download URL for a cartridge.
func (c *Client) CartURL(md5, filename string) string {
	return fmt.Sprintf("%s/cart/%s/%s", c.baseURL, md5, filename)
}

// CoverURL returns the cover image URL for a cartridge.
func (c *Client) CoverURL(md5 string) string {
	return fmt.Sprintf("%s/cart/%s/cover.gif", c.baseURL, strings.ToLower(md5))
}

// PlayURL returns the play page URL for a site id.
func (c *Client) PlayURL(id string) string {
	return fmt.Sprintf("%s/play?cart=%s", c.baseURL, id)
}

// ListCategory fetches one directory section.
func (c *Client) ListCategory(ctx context.Context, category string) ([]Listing, error) {
	url := fmt.Sprintf("%s/api?fn=dir&path=play/%s", c.baseURL, category)
	body, _, err := services.Get(ctx, c.httpClient, url, c.userAgent, c.headers)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	listings := ParseListing(string(body))
	c.logger.Debug("fetched category listing",
		logging.String(logging.FieldCategory, category),
		logging.Int(logging.FieldCount, len(listings)))
	return listings, nil
}

// PlayPage fetches and parses the play page for a site id.
func (c *Client) PlayPage(ctx context.Context, id string) (PageMeta, error) {
	body, _, err := services.Get(ctx, c.httpClient, c.PlayURL(id), c.userAgent, c.headers)
	if err != nil {
		return PageMeta{}, fmt.Errorf("play page %s: %w", id, err)
	}
	return ParsePlayPage(string(body)), nil
}

// DownloadCart fetches a cartridge. Some downloads come back as an HTML page
// with the cartridge bytes embedded in a script array; those are unpacked
// transparently. The returned time is the server's Last-Modified, zero when
// absent.
func (c *Client) DownloadCart(ctx context.Context, md5, filename string) ([]byte, time.Time, error) {
	url := c.CartURL(md5, filename)
	body, header, err := services.Get(ctx, c.httpClient, url, c.userAgent, c.headers)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("download cart: %w", err)
	}
	modified := services.LastModified(header)

	if strings.Contains(strings.ToLower(header.Get("Content-Type")), "html") {
		data, err := cart.ExtractEmbedded(body)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("download cart %s: %w", url, err)
		}
		return data, modified, nil
	}

	if !services.ValidDownload(body) {
		return nil, time.Time{}, fmt.Errorf("download cart %s: suspiciously small response (%d bytes)", url, len(body))
	}
	return body, modified, nil
}

// DownloadCover fetches the raw cover image for a cartridge.
func (c *Client) DownloadCover(ctx context.Context, md5 string) ([]byte, error) {
	url := c.CoverURL(md5)
	body, _, err := services.Get(ctx, c.httpClient, url, c.userAgent, c.headers)
	if err != nil {
		return nil, fmt.Errorf("download cover: %w", err)
	}
	if !services.ValidDownload(body) {
		return nil, fmt.Errorf("download cover %s: suspiciously small response (%d bytes)", url, len(body))
	}
	return body, nil
}
