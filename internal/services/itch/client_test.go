package itch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleCell = `<div data-game_id="123456" class="game_cell">
  <div class="game_title"><a href="https://pixelsmith.itch.io/cave-dig" class="title game_link">Cave &amp; Dig</a></div>
  <div class="game_text">Dig for treasure</div>
  <div class="game_author"><a href="https://pixelsmith.itch.io" data-label="user:777 follow_btn">PixelSmith</a></div>
  <div class="game_genre">Platformer</div>
</div>
<div data-game_id="42" class="game_cell">
  <div class="game_title"><a href="https://x.itch.io/nav">Nav widget</a></div>
</div>`

func TestParseGameCells(t *testing.T) {
	games := parseGameCells(sampleCell)
	if len(games) != 1 {
		t.Fatalf("expected the low-id cell to be skipped, got %d games", len(games))
	}
	g := games[0]
	if g.ID != "123456" {
		t.Fatalf("ID = %q", g.ID)
	}
	if g.Title != "Cave & Dig" {
		t.Fatalf("Title = %q", g.Title)
	}
	if g.Page != "https://pixelsmith.itch.io/cave-dig" {
		t.Fatalf("Page = %q", g.Page)
	}
	if g.AuthorName != "PixelSmith" || g.AuthorSlug != "pixelsmith" || g.AuthorID != "777" {
		t.Fatalf("author fields: %+v", g)
	}
	if g.Genre != "Platformer" || g.Description != "Dig for treasure" {
		t.Fatalf("genre/description: %+v", g)
	}
}

const sampleFeed = `<?xml version="1.0"?>
<rss><channel>
  <item>
    <link>https://pixelsmith.itch.io/cave-dig</link>
    <pubDate>Tue, 19 Nov 2019 15:16:03 GMT</pubDate>
    <updateDate>Sun, 13 Sep 2020 12:26:40 GMT</updateDate>
  </item>
  <item><link></link></item>
</channel></rss>`

func TestParseFeed(t *testing.T) {
	dates := ParseFeed([]byte(sampleFeed))
	if len(dates) != 1 {
		t.Fatalf("expected 1 item, got %d", len(dates))
	}
	d, ok := dates["https://pixelsmith.itch.io/cave-dig"]
	if !ok {
		t.Fatalf("link missing: %v", dates)
	}
	pubDate, pubTS := d.publication()
	if pubDate != "2019-11-19" || pubTS != "1574176563" {
		t.Fatalf("publication = %q %q", pubDate, pubTS)
	}
	updDate, updTS := d.update()
	if updDate != "2020-09-13" || updTS != "1600000000" {
		t.Fatalf("update = %q %q", updDate, updTS)
	}
}

func TestParseFeedMalformed(t *testing.T) {
	if got := ParseFeed([]byte("not xml at all <<<")); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestScrapeGamesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			w.Write([]byte("<rss><channel></channel></rss>"))
			return
		}
		page := r.URL.Query().Get("page")
		var content string
		if r.URL.Path == "/games/made-with-tic-80/platform-web" && page == "1" {
			content = sampleCell
		}
		json.NewEncoder(w).Encode(map[string]string{"content": content})
	}))
	defer server.Close()

	client := NewClient(nil, "agent", time.Second, WithBaseURL(server.URL), WithDelay(0))
	dates := map[string]FeedDates{
		"https://pixelsmith.itch.io/cave-dig": {PubDate: "Tue, 19 Nov 2019 15:16:03 GMT"},
	}
	games, err := client.ScrapeGames(context.Background(), dates)
	if err != nil {
		t.Fatalf("ScrapeGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if games[0].PubDate != "2019-11-19" || games[0].PubTimestamp != "1574176563" {
		t.Fatalf("feed dates not merged: %+v", games[0])
	}
}

func TestFetchFeedDatesStopsOnEmptyPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if strings.HasSuffix(r.URL.Path, ".xml") && r.URL.Query().Get("page") == "1" && strings.Contains(r.URL.Path, "made-with-tic-80") {
			w.Write([]byte(sampleFeed))
			return
		}
		w.Write([]byte("<rss><channel></channel></rss>"))
	}))
	defer server.Close()

	client := NewClient(nil, "agent", time.Second, WithBaseURL(server.URL), WithDelay(0))
	dates, err := client.FetchFeedDates(context.Background())
	if err != nil {
		t.Fatalf("FetchFeedDates: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 dated game, got %d", len(dates))
	}
	// One populated page plus one empty page for the first path, then one
	// empty page for each of the other two paths.
	if requests != 4 {
		t.Fatalf("expected 4 feed requests, got %d", requests)
	}
}

func TestFindCartViaIframeArguments(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 300)
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	gamePage := `<html>
<div class="screenshot_list">
  <a data-image_lightbox="true" href="https://img.itch.zone/ss/original/shot1.png">x</a>
  <a data-image_lightbox="true" href="https://img.itch.zone/ss/thumb/shot1.png">x</a>
</div>
<iframe src="https://html-classic.itch.zone/html/1234-56/game/"></iframe></html>`

	mux.HandleFunc("/game", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gamePage))
	})
	mux.HandleFunc("/html/1234-56/game/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<script>TIC.start({arguments:['cart.tic']})</script>`))
	})
	mux.HandleFunc("/html/1234-56/game/cart.tic", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	})

	// The iframe pattern only matches itch.zone hosts, so the transport
	// rewrites those requests onto the test server.
	client := NewClient(nil, "agent", time.Second, WithBaseURL(server.URL), WithDelay(0),
		WithHTTPClient(rewriteClient(server.URL)))
	data, err := client.FindCart(context.Background(), server.URL+"/game")
	if err != nil {
		t.Fatalf("FindCart: %v", err)
	}
	if !bytes.Equal(data.Content, payload) {
		t.Fatal("cart content mismatch")
	}
	if len(data.ScreenshotURLs) != 1 || !strings.Contains(data.ScreenshotURLs[0], "/original/") {
		t.Fatalf("screenshots = %v", data.ScreenshotURLs)
	}
}

func TestFindCartEmbeddedOnMainPage(t *testing.T) {
	original := bytes.Repeat([]byte("TIC!"), 64)
	parts := make([]string, len(original))
	for i, b := range original {
		parts[i] = fmt.Sprintf("%d", b)
	}
	page := "<html><script>var cartridge = [" + strings.Join(parts, ",") + "];</script></html>"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewClient(nil, "agent", time.Second, WithDelay(0))
	data, err := client.FindCart(context.Background(), server.URL+"/game")
	if err != nil {
		t.Fatalf("FindCart: %v", err)
	}
	if !bytes.Equal(data.Content, original) {
		t.Fatal("embedded cart mismatch")
	}
}

func TestFindCartNothingFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>just a devlog</html>"))
	}))
	defer server.Close()

	client := NewClient(nil, "agent", time.Second, WithDelay(0))
	if _, err := client.FindCart(context.Background(), server.URL+"/game"); err == nil {
		t.Fatal("expected ErrNoCart")
	}
}

// rewriteClient redirects itch.zone URLs to the test server.
func rewriteClient(target string) *http.Client {
	return &http.Client{
		Transport: rewriteTransport{target: target},
		Timeout:   5 * time.Second,
	}
}

type rewriteTransport struct {
	target string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Host, "itch.zone") {
		rewritten, err := http.NewRequestWithContext(req.Context(), req.Method, t.target+req.URL.Path, nil)
		if err != nil {
			return nil, err
		}
		rewritten.Header = req.Header
		req = rewritten
	}
	return http.DefaultTransport.RoundTrip(req)
}
