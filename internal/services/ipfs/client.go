package ipfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cartshelf/internal/logging"
	"cartshelf/internal/services"
)

// ErrAllGatewaysFailed reports that no configured gateway produced the file.
var ErrAllGatewaysFailed = errors.New("all gateways failed")

// Client downloads files from IPFS over HTTP gateways.
type Client struct {
	httpClient *http.Client
	gateways   []string
	userAgent  string
	scheme     string
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

// WithScheme overrides the URL scheme, mainly for tests.
func WithScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// NewClient builds a gateway client. Gateways are bare host names, tried in
// the given order.
func NewClient(logger *slog.Logger, gateways []string, userAgent string, timeout time.Duration, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Client{
		httpClient: services.HTTPClient(timeout),
		gateways:   gateways,
		userAgent:  userAgent,
		scheme:     "https",
		logger:     logging.NewComponentLogger(logger, "ipfs"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the content for a CID, returning the bytes and the gateway
// that served them.
func (c *Client) Fetch(ctx context.Context, cid string) ([]byte, string, error) {
	if cid == "" {
		return nil, "", errors.New("empty cid")
	}
	var lastErr error
	for _, gateway := range c.gateways {
		url := fmt.Sprintf("%s://%s/ipfs/%s", c.scheme, gateway, cid)
		body, _, err := services.Get(ctx, c.httpClient, url, c.userAgent, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			c.logger.Debug("gateway failed",
				logging.String("gateway", gateway),
				logging.Error(err))
			lastErr = err
			continue
		}
		if !services.ValidDownload(body) {
			lastErr = fmt.Errorf("%s: suspiciously small response (%d bytes)", url, len(body))
			continue
		}
		return body, gateway, nil
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("%w for cid %s: %v", ErrAllGatewaysFailed, cid, lastErr)
	}
	return nil, "", fmt.Errorf("%w for cid %s", ErrAllGatewaysFailed, cid)
}
