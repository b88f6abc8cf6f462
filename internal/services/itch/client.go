package itch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cartshelf/internal/logging"
	"cartshelf/internal/services"
)

// BaseURL is the production site.
const BaseURL = "https://itch.io"

// BrowsePaths are the browse sections scanned for TIC-80 games, in order.
// The same game can appear under several paths; callers dedupe by id.
var BrowsePaths = []string{
	"made-with-tic-80/platform-web",
	"platform-web/tag-tic-80",
	"platform-web/tag-tic",
}

// requestDelay spaces out requests so the scrape stays polite.
const requestDelay = 300 * time.Millisecond

// Game is one scraped browse-page entry.
type Game struct {
	ID           string
	Title        string
	Page         string
	AuthorName   string
	AuthorSlug   string
	AuthorID     string
	Description  string
	Genre        string
	PubDate      string
	UpdDate      string
	PubTimestamp string
	UpdTimestamp string
}

// Client scrapes itch.io browse pages, feeds, and game pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	headers    map[string]string
	delay      time.Duration
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

// WithHeaders sets saved browser headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// WithDelay overrides the inter-request delay.
func WithDelay(delay time.Duration) Option {
	return func(c *Client) { c.delay = delay }
}

// NewClient builds an itch.io client.
func NewClient(logger *slog.Logger, userAgent string, timeout time.Duration, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Client{
		httpClient: services.HTTPClient(timeout),
		baseURL:    BaseURL,
		userAgent:  userAgent,
		delay:      requestDelay,
		logger:     logging.NewComponentLogger(logger, "itch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, url string) ([]byte, http.Header, error) {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	return services.Get(ctx, c.httpClient, url, c.userAgent, c.headers)
}

// DownloadImage fetches a screenshot or cover image with the client's saved
// headers and delay.
func (c *Client) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if !services.ValidDownload(body) {
		return nil, fmt.Errorf("download image %s: suspiciously small response (%d bytes)", url, len(body))
	}
	return body, nil
}

// FetchFeedDates walks every browse feed and returns page URL to feed dates.
// The feeds are the only source of publication and update times.
func (c *Client) FetchFeedDates(ctx context.Context) (map[string]FeedDates, error) {
	dates := make(map[string]FeedDates)
	for _, path := range BrowsePaths {
		for page := 1; ; page++ {
			url := fmt.Sprintf("%s/games/%s.xml?page=%d", c.baseURL, path, page)
			body, _, err := c.get(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return dates, ctx.Err()
				}
				c.logger.Warn("feed page failed",
					logging.String(logging.FieldPath, path),
					logging.Int("page", page),
					logging.Error(err))
				break
			}
			pageDates := ParseFeed(body)
			if len(pageDates) == 0 {
				break
			}
			for link, d := range pageDates {
				dates[link] = d
			}
		}
	}
	c.logger.Info("feed scan complete", logging.Int(logging.FieldCount, len(dates)))
	return dates, nil
}

// ScrapeGames walks every browse section's JSON pages and returns all game
// cells found, enriched with dates from the feed map.
func (c *Client) ScrapeGames(ctx context.Context, dates map[string]FeedDates) ([]Game, error) {
	var games []Game
	for _, path := range BrowsePaths {
		for page := 1; ; page++ {
			url := fmt.Sprintf("%s/games/%s?page=%d&format=json", c.baseURL, path, page)
			body, _, err := c.get(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return games, ctx.Err()
				}
				c.logger.Warn("browse page failed",
					logging.String(logging.FieldPath, path),
					logging.Int("page", page),
					logging.Error(err))
				break
			}

			var payload struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				c.logger.Warn("browse page not JSON",
					logging.String(logging.FieldPath, path),
					logging.Int("page", page),
					logging.Error(err))
				break
			}
			if strings.TrimSpace(payload.Content) == "" {
				break
			}

			cells := parseGameCells(payload.Content)
			if len(cells) == 0 && page > 1 {
				break
			}
			for _, cell := range cells {
				game := cell
				if d, ok := dates[game.Page]; ok {
					game.PubDate, game.PubTimestamp = d.publication()
					game.UpdDate, game.UpdTimestamp = d.update()
				}
				games = append(games, game)
			}
		}
	}
	c.logger.Info("browse scan complete", logging.Int(logging.FieldCount, len(games)))
	return games, nil
}
