package itch

import (
	"encoding/xml"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// minGameID filters out the low-numbered cells the browse pages mix in;
// those are navigation widgets, not games.
const minGameID = 10000

// FeedDates holds the raw RFC 1123 date strings from one feed item.
type FeedDates struct {
	PubDate string
	UpdDate string
}

var feedDateLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05",
}

func parseFeedDate(value string) (time.Time, bool) {
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func formatDate(value string) (date, timestamp string) {
	t, ok := parseFeedDate(value)
	if !ok {
		return "", ""
	}
	return t.Format("2006-01-02"), strconv.FormatInt(t.Unix(), 10)
}

func (d FeedDates) publication() (date, timestamp string) { return formatDate(d.PubDate) }
func (d FeedDates) update() (date, timestamp string)      { return formatDate(d.UpdDate) }

type rssFeed struct {
	Channel struct {
		Items []struct {
			Link       string `xml:"link"`
			PubDate    string `xml:"pubDate"`
			UpdateDate string `xml:"updateDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// ParseFeed maps each feed item's page URL to its dates. Malformed XML
// yields an empty map, which callers treat as end of feed.
func ParseFeed(body []byte) map[string]FeedDates {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return map[string]FeedDates{}
	}
	dates := make(map[string]FeedDates, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		dates[link] = FeedDates{
			PubDate: strings.TrimSpace(item.PubDate),
			UpdDate: strings.TrimSpace(item.UpdateDate),
		}
	}
	return dates
}

var (
	gameCellPattern = regexp.MustCompile(`<div[^>]*data-game_id="(\d+)"`)
	titlePattern    = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*game_title[^"]*"[^>]*>\s*<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	authorPattern   = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*game_author[^"]*"[^>]*>\s*<a([^>]*)>(.*?)</a>`)
	genrePattern    = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*game_genre[^"]*"[^>]*>(.*?)</div>`)
	textPattern     = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*game_text[^"]*"[^>]*>(.*?)</div>`)
	hrefPattern     = regexp.MustCompile(`href="([^"]*)"`)
	userLabelPattern = regexp.MustCompile(`user:(\d+)`)
	cellTagPattern   = regexp.MustCompile(`<[^>]+>`)
)

// parseGameCells extracts game metadata from the browse page's HTML
// fragment. Each cell is sliced out by its data-game_id anchor and mined
// with per-field patterns.
func parseGameCells(content string) []Game {
	anchors := gameCellPattern.FindAllStringSubmatchIndex(content, -1)
	games := make([]Game, 0, len(anchors))
	for i, anchor := range anchors {
		id := content[anchor[2]:anchor[3]]
		numeric, err := strconv.Atoi(id)
		if err != nil || numeric < minGameID {
			continue
		}

		start := anchor[0]
		end := len(content)
		if i+1 < len(anchors) {
			end = anchors[i+1][0]
		}
		cell := content[start:end]

		game := Game{ID: id}
		if m := titlePattern.FindStringSubmatch(cell); m != nil {
			game.Page = m[1]
			game.Title = cleanCellText(m[2])
		}
		if m := authorPattern.FindStringSubmatch(cell); m != nil {
			game.AuthorName = cleanCellText(m[2])
			game.AuthorSlug = authorSlug(firstHref(m[1]))
			if label := userLabelPattern.FindStringSubmatch(m[1]); label != nil {
				game.AuthorID = label[1]
			}
		}
		if m := genrePattern.FindStringSubmatch(cell); m != nil {
			game.Genre = cleanCellText(m[1])
		}
		if m := textPattern.FindStringSubmatch(cell); m != nil {
			game.Description = cleanCellText(m[1])
		}
		games = append(games, game)
	}
	return games
}

// authorSlug derives the account slug from a profile URL host like
// somebody.itch.io.
func authorSlug(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	host := parsed.Hostname()
	if strings.HasSuffix(host, ".itch.io") {
		return strings.TrimSuffix(host, ".itch.io")
	}
	return ""
}

func firstHref(attrs string) string {
	if m := hrefPattern.FindStringSubmatch(attrs); m != nil {
		return m[1]
	}
	return ""
}

func cleanCellText(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(cellTagPattern.ReplaceAllString(fragment, "")))
}
