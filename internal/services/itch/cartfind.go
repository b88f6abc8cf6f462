package itch

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"cartshelf/internal/cart"
	"cartshelf/internal/logging"
	"cartshelf/internal/services"
)

// CartData is a cartridge located on a game page.
type CartData struct {
	Content        []byte
	LastModified   time.Time
	ScreenshotURLs []string
}

// ErrNoCart reports that a game page carried no locatable cartridge.
var ErrNoCart = fmt.Errorf("no cartridge found on page")

var (
	argumentsPattern = regexp.MustCompile(`(?i)arguments\s*:\s*\[\s*['"]([^'"]+\.tic)['"]`)
	iframeDirPattern = regexp.MustCompile(`https?://html(?:-classic)?\.itch\.zone/html/[\d-]+/[^/"]*/`)
	iframeHtmlPattern = regexp.MustCompile(`https?://html(?:-classic)?\.itch\.zone/html/[\d-]+/`)
	lightboxPattern   = regexp.MustCompile(`(?is)<a[^>]*data-image_lightbox="true"[^>]*>`)
)

// FindCart locates the cartridge for a game page. Authors embed carts three
// ways: a classic-HTML iframe hosting index.html with an arguments list, an
// inline "var cartridge" byte array, or a plain cart.tic next to the player
// page. Each is tried in turn; screenshot URLs from the page come along for
// media download.
func (c *Client) FindCart(ctx context.Context, pageURL string) (CartData, error) {
	body, header, err := c.get(ctx, pageURL)
	if err != nil {
		return CartData{}, fmt.Errorf("game page %s: %w", pageURL, err)
	}
	page := string(body)
	screenshots := parseScreenshotURLs(page)

	for _, frameBase := range iframeBases(page) {
		indexURL := joinURL(frameBase, "index.html")
		c.logger.Debug("probing iframe", logging.String(logging.FieldPath, indexURL))
		data, err := c.findCartOnPage(ctx, indexURL)
		if err == nil {
			data.ScreenshotURLs = screenshots
			return data, nil
		}
	}

	// Last resort: an embedded cartridge on the main page itself.
	if content, err := cart.ExtractEmbedded(body); err == nil {
		return CartData{
			Content:        content,
			LastModified:   services.LastModified(header),
			ScreenshotURLs: screenshots,
		}, nil
	}

	return CartData{}, fmt.Errorf("%w: %s", ErrNoCart, pageURL)
}

// findCartOnPage scans one player page for a cartridge.
func (c *Client) findCartOnPage(ctx context.Context, pageURL string) (CartData, error) {
	body, header, err := c.get(ctx, pageURL)
	if err != nil {
		return CartData{}, err
	}
	page := string(body)

	if m := argumentsPattern.FindStringSubmatch(page); m != nil {
		if data, err := c.fetchCartFile(ctx, joinURL(pageURL, m[1])); err == nil {
			return data, nil
		}
	}

	if content, err := cart.ExtractEmbedded(body); err == nil {
		return CartData{Content: content, LastModified: services.LastModified(header)}, nil
	}

	if data, err := c.fetchCartFile(ctx, joinURL(pageURL, "cart.tic")); err == nil {
		return data, nil
	}

	return CartData{}, fmt.Errorf("%w: %s", ErrNoCart, pageURL)
}

// fetchCartFile downloads a cart URL and verifies it is binary content.
func (c *Client) fetchCartFile(ctx context.Context, cartURL string) (CartData, error) {
	body, header, err := c.get(ctx, cartURL)
	if err != nil {
		return CartData{}, err
	}
	if !strings.Contains(header.Get("Content-Type"), "application") {
		return CartData{}, fmt.Errorf("%s: not binary content", cartURL)
	}
	if !services.ValidDownload(body) {
		return CartData{}, fmt.Errorf("%s: suspiciously small response (%d bytes)", cartURL, len(body))
	}
	return CartData{Content: body, LastModified: services.LastModified(header)}, nil
}

// iframeBases collects classic-HTML iframe base URLs from anywhere in the
// page markup, entity-decoded because they often hide inside data
// attributes.
func iframeBases(page string) []string {
	decoded := html.UnescapeString(page)
	set := make(map[string]struct{})
	matches := iframeDirPattern.FindAllString(decoded, -1)
	if len(matches) == 0 {
		matches = iframeHtmlPattern.FindAllString(decoded, -1)
	}
	for _, m := range matches {
		set[m] = struct{}{}
	}
	bases := make([]string, 0, len(set))
	for base := range set {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}

// parseScreenshotURLs pulls full-size screenshot links from the page's
// lightbox anchors.
func parseScreenshotURLs(page string) []string {
	var urls []string
	for _, tag := range lightboxPattern.FindAllString(page, -1) {
		href := firstHref(tag)
		if href != "" && strings.Contains(href, "/original/") {
			urls = append(urls, href)
		}
	}
	return urls
}

func joinURL(base, ref string) string {
	parsedBase, err := url.Parse(base)
	if err != nil {
		return ref
	}
	parsedRef, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return parsedBase.ResolveReference(parsedRef).String()
}
