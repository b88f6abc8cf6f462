package naming

import (
	"fmt"
	"strings"
	"unicode"

	"cartshelf/internal/games"
)

// ForbiddenChars are stripped from every generated filename.
const ForbiddenChars = `<>:"/\|?*`

// Folder organization and filename case modes.
const (
	OrganizationSingle   = "single"
	OrganizationMultiple = "multiple"

	CaseUnchanged = "unchanged"
	CaseUppercase = "uppercase"
	CaseLowercase = "lowercase"
)

// Options controls filename generation. The zero value means single-folder
// layout, unchanged case, no category suffix, no custom names.
type Options struct {
	FolderOrganization  string
	FilenameCase        string
	CategoryParenthesis bool
	UseCustomFilenames  bool
	UseCustomGamenames  bool
}

// FileInfo is the set of names derived for one record.
type FileInfo struct {
	// PreFilename is the name part before " - id (date)", including any
	// category suffix and case transform.
	PreFilename string
	// GameName is the sanitized display name for gamelist entries.
	GameName string
	// RomFilename is the full cartridge filename.
	RomFilename string
	// ImageFilename is the cover image filename. It carries no category
	// suffix and no date so it survives metadata-only updates.
	ImageFilename string
}

// Generate derives all names for a record.
func Generate(r games.Record, opts Options) FileInfo {
	gameID := games.PrimaryID(r)
	origName := r[games.FieldNameOriginal]
	if origName == "" {
		origName = r[games.FieldItchTitle]
	}
	overwriteName := strings.TrimSpace(r[games.FieldNameOverwrite])
	category := games.Category(r)
	updateDate := games.EffectiveDate(r)

	baseName := origName
	if opts.UseCustomFilenames && overwriteName != "" {
		baseName = overwriteName
	}
	gameName := origName
	if opts.UseCustomGamenames && overwriteName != "" {
		gameName = overwriteName
	}

	var categorySuffix string
	if opts.FolderOrganization == OrganizationSingle && opts.CategoryParenthesis && category != games.CategoryGames {
		categorySuffix = fmt.Sprintf(" (%s)", singularize(category))
	}

	preFilename := baseName + categorySuffix

	switch opts.FilenameCase {
	case CaseUppercase:
		preFilename = strings.ToUpper(preFilename)
		baseName = strings.ToUpper(baseName)
	case CaseLowercase:
		preFilename = strings.ToLower(preFilename)
		baseName = strings.ToLower(baseName)
	}

	baseName = SafeFilename(baseName)
	preFilename = SafeFilename(preFilename)
	gameName = SafeFilename(gameName)

	return FileInfo{
		PreFilename:   preFilename,
		GameName:      gameName,
		RomFilename:   fmt.Sprintf("%s - %s (%s).tic", preFilename, gameID, updateDate),
		ImageFilename: fmt.Sprintf("%s - %s.png", baseName, gameID),
	}
}

// singularize trims the category name for the parenthesized suffix. "Tools"
// becomes "Tool" and other plurals lose their trailing "s"; "Demoscene" is
// not a plural and stays intact.
func singularize(category string) string {
	if category == "Tools" {
		return "Tool"
	}
	if category != "Demoscene" && strings.HasSuffix(category, "s") {
		return category[:len(category)-1]
	}
	return category
}

// SafeFilename removes forbidden filesystem characters and collapses runs of
// whitespace into single spaces.
func SafeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if !strings.ContainsRune(ForbiddenChars, r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SanitizeTitle cleans a raw title from a catalog listing: strips a trailing
// ".tic", converts underscores to spaces, decodes the handful of HTML
// entities the catalogs emit, collapses whitespace, and uppercases the first
// letter.
func SanitizeTitle(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".tic") {
		name = name[:len(name)-4]
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "&amp;", "&")
	name = strings.ReplaceAll(name, "&#34;", "'")
	name = strings.ReplaceAll(name, "&#39;", "'")
	name = strings.ReplaceAll(name, `"`, "'")
	name = strings.Join(strings.Fields(name), " ")

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}
