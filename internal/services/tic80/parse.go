package tic80

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// PageMeta holds the metadata scraped from a play page. Timestamps are epoch
// seconds as strings, empty when the page carries none.
type PageMeta struct {
	AuthorName       string
	UploaderName     string
	UploaderID       string
	PubTimestamp     string
	UpdTimestamp     string
	Description      string
	DescriptionExtra string
}

var (
	filesBlockPattern = regexp.MustCompile(`files\s*=\s*\{([\s\S]*)\}`)
	fileEntryPattern  = regexp.MustCompile(`\{\s*name\s*=\s*"([\s\S]*?)",\s*hash\s*=\s*"(.*?)",\s*id\s*=\s*(\d+),\s*filename\s*=\s*"(.*?)"\s*\}`)

	madeByPattern   = regexp.MustCompile(`made by\s*([^<\n]+)`)
	devLinkPattern  = regexp.MustCompile(`<a[^>]*href="[^"]*dev\?id=(\d+)[^"]*"[^>]*>([\s\S]*?)</a>`)
	addedPattern    = regexp.MustCompile(`(?is)added:\s*<span[^>]*class="date"[^>]*value="(\d+)"`)
	updatedPattern  = regexp.MustCompile(`(?is)updated:\s*<span[^>]*class="date"[^>]*value="(\d+)"`)
	anyDatePattern  = regexp.MustCompile(`(?i)<span[^>]*class="date"[^>]*value="(\d+)"`)
	metaDescPattern = regexp.MustCompile(`(?i)<meta[^>]*name="description"[^>]*content="([^"]*)"`)
	hrSplitPattern  = regexp.MustCompile(`(?i)<hr[^>]*>`)
	paragraphPattern = regexp.MustCompile(`(?is)<p[^>]*>([\s\S]*?)</p>`)
	brPattern        = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern       = regexp.MustCompile(`<[^>]+>`)
)

// ParseListing extracts directory entries from the site's Lua-ish listing
// response.
func ParseListing(text string) []Listing {
	block := filesBlockPattern.FindStringSubmatch(text)
	if block == nil {
		return nil
	}
	matches := fileEntryPattern.FindAllStringSubmatch(block[1], -1)
	listings := make([]Listing, 0, len(matches))
	for _, m := range matches {
		listings = append(listings, Listing{
			Name:     m[1],
			MD5:      m[2],
			ID:       m[3],
			Filename: m[4],
		})
	}
	return listings
}

// ParsePlayPage scrapes author, uploader, timestamps, and descriptions from
// play page HTML.
func ParsePlayPage(page string) PageMeta {
	var meta PageMeta

	if m := madeByPattern.FindStringSubmatch(page); m != nil {
		meta.AuthorName = strings.TrimSpace(html.UnescapeString(m[1]))
	}
	if m := devLinkPattern.FindStringSubmatch(page); m != nil {
		meta.UploaderID = m[1]
		meta.UploaderName = strings.TrimSpace(html.UnescapeString(stripTags(m[2])))
	}

	meta.PubTimestamp = millisToSeconds(firstGroup(addedPattern, page))
	meta.UpdTimestamp = millisToSeconds(firstGroup(updatedPattern, page))
	if meta.PubTimestamp == "" {
		meta.PubTimestamp = millisToSeconds(firstGroup(anyDatePattern, page))
	}
	if meta.UpdTimestamp == "" {
		meta.UpdTimestamp = meta.PubTimestamp
	}

	if m := metaDescPattern.FindStringSubmatch(page); m != nil {
		meta.Description = html.UnescapeString(m[1])
	}
	meta.DescriptionExtra = extraDescription(page)
	return meta
}

// extraDescription pulls the paragraph that follows the second horizontal
// rule, where the site shows the uploader's long-form notes.
func extraDescription(page string) string {
	sections := hrSplitPattern.Split(page, -1)
	if len(sections) < 3 {
		return ""
	}
	m := paragraphPattern.FindStringSubmatch(sections[2])
	if m == nil {
		return ""
	}
	text := brPattern.ReplaceAllString(m[1], `\n`)
	return strings.TrimSpace(html.UnescapeString(stripTags(text)))
}

func firstGroup(pattern *regexp.Regexp, text string) string {
	if m := pattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func millisToSeconds(value string) string {
	if value == "" {
		return ""
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(ms/1000, 10)
}

func stripTags(fragment string) string {
	return tagPattern.ReplaceAllString(fragment, "")
}
