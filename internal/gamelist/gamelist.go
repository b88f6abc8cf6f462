package gamelist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cartshelf/internal/games"
	"cartshelf/internal/naming"
)

// Options controls gamelist generation.
type Options struct {
	Naming naming.Options
	// ImageDir is the directory (relative to the gamelist) holding the
	// images referenced by <image> and <screenshot>. Defaults to
	// "screenshots".
	ImageDir string
}

// EscapeXML escapes the five XML special characters. Values that arrive with
// &amp;, &lt;, or &gt; already applied are unescaped first so they do not
// double up.
func EscapeXML(text string) string {
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")

	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	text = strings.ReplaceAll(text, "'", "&apos;")
	return text
}

// Description picks the best available description for a record.
func Description(r games.Record) string {
	for _, field := range []string{
		games.FieldOverwriteDesc, games.FieldSscrpDesc,
		games.FieldTicDesc, games.FieldItchDesc,
	} {
		if v := strings.TrimSpace(r[field]); v != "" {
			return v
		}
	}
	return ""
}

// Author picks the best available author for a record.
func Author(r games.Record) string {
	for _, field := range []string{
		games.FieldOverwriteAuthor, games.FieldTicAuthor, games.FieldItchAuthor,
	} {
		if v := strings.TrimSpace(r[field]); v != "" {
			return v
		}
	}
	return ""
}

// Genre picks the best available genre for a record.
func Genre(r games.Record) string {
	for _, field := range []string{
		games.FieldOverwriteGenre, games.FieldSccrpGenre, games.FieldItchGenre,
	} {
		if v := strings.TrimSpace(r[field]); v != "" {
			return v
		}
	}
	return ""
}

// EntryXML renders one <game> element. Returns ok=false when the record
// lacks a content hash; such records never enter the gamelist.
func EntryXML(r games.Record, opts Options) (string, bool) {
	md5 := r[games.FieldFileMD5]
	if md5 == "" {
		md5 = r[games.FieldTicMD5]
	}
	if md5 == "" {
		return "", false
	}

	info := naming.Generate(r, opts.Naming)

	path := "./" + info.RomFilename
	if opts.Naming.FolderOrganization == naming.OrganizationMultiple {
		path = "./" + games.Category(r) + "/" + info.RomFilename
	}

	imageDir := opts.ImageDir
	if imageDir == "" {
		imageDir = "screenshots"
	}
	imagePath := "./" + strings.Trim(imageDir, "./\\") + "/" + info.ImageFilename

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	sortName := r[games.FieldSortName]
	if sortName == "" {
		sortName = info.GameName
	}

	line("\t<game>")
	line("\t\t<path>%s</path>", EscapeXML(path))
	line("\t\t<sortname>%s</sortname>", EscapeXML(sortName))
	line("\t\t<name>%s</name>", EscapeXML(info.GameName))
	if desc := Description(r); desc != "" {
		line("\t\t<desc>%s</desc>", EscapeXML(desc))
	}
	line("\t\t<image>%s</image>", EscapeXML(imagePath))
	line("\t\t<screenshot>%s</screenshot>", EscapeXML(imagePath))
	line("\t\t<titleshot>./titlescreens/%s</titleshot>", EscapeXML(info.ImageFilename))

	if release := releaseDate(r); release != "" {
		line("\t\t<releasedate>%s</releasedate>", release)
	}
	if author := Author(r); author != "" {
		line("\t\t<developer>%s</developer>", EscapeXML(author))
	}
	line("\t\t<md5>%s</md5>", md5)
	if lang := r["lang"]; lang != "" {
		line("\t\t<lang>%s</lang>", EscapeXML(lang))
	}
	if region := r["region"]; region != "" {
		line("\t\t<region>%s</region>", EscapeXML(region))
	}
	if genre := Genre(r); genre != "" {
		line("\t\t<genre>%s</genre>", EscapeXML(genre))
	}
	if players := strings.TrimSpace(r[games.FieldNumPlayers]); players != "" {
		line("\t\t<players>%s</players>", EscapeXML(players))
	}
	if controller := strings.TrimSpace(r["esde_controller"]); controller != "" {
		line("\t\t<controller>%s</controller>", EscapeXML(controller))
	}
	b.WriteString("\t</game>")
	return b.String(), true
}

// releaseDate converts the publish date into the scraper's compact form
// (YYYYMMDDT000000). The tic catalog date wins over itch.
func releaseDate(r games.Record) string {
	date := r[games.FieldTicPubDate]
	if date == "" {
		date = r[games.FieldItchPubDate]
	}
	if date == "" {
		return ""
	}
	return strings.ReplaceAll(date, "-", "") + "T000000"
}

// Generate renders the complete gamelist document for the downloaded subset
// of records, sorted by display name.
func Generate(records []games.Record, opts Options) (string, int) {
	eligible := make([]games.Record, 0, len(records))
	for _, rec := range records {
		if rec[games.FieldFileSHA1] != "" {
			eligible = append(eligible, rec)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return listKey(eligible[i]) < listKey(eligible[j])
	})

	parts := []string{`<?xml version="1.0"?>`, "<gameList>"}
	count := 0
	for _, rec := range eligible {
		entry, ok := EntryXML(rec, opts)
		if !ok {
			continue
		}
		parts = append(parts, entry)
		count++
	}
	parts = append(parts, "</gameList>")
	return strings.Join(parts, "\n"), count
}

func listKey(r games.Record) string {
	name := r[games.FieldNameOverwrite]
	if name == "" {
		name = r[games.FieldNameOriginal]
	}
	if name == "" {
		name = r[games.FieldItchTitle]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// WriteFile renders and atomically writes the gamelist to path. Returns the
// number of entries written.
func WriteFile(path string, records []games.Record, opts Options) (int, error) {
	content, count := Generate(records, opts)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create gamelist directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp gamelist: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write gamelist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close gamelist: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("replace gamelist: %w", err)
	}
	return count, nil
}
