package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"cartshelf/internal/naming"
)

// MediaTypes are the media subdirectories maintained under the media dir.
var MediaTypes = []string{"screenshots", "titlescreens", "cart-covers", "itch-screenshots"}

// FindGameFile searches the ROM directory for a .tic or .png file whose name
// carries the given id in the "- id (" position. In multiple-folder mode all
// subdirectories are scanned. Returns "" when nothing matches.
func FindGameFile(romsDir, gameID, folderOrganization string) string {
	if gameID == "" {
		return ""
	}
	marker := fmt.Sprintf("- %s (", gameID)

	searchDirs := []string{romsDir}
	if folderOrganization == naming.OrganizationMultiple {
		searchDirs = searchDirs[:0]
		entries, err := os.ReadDir(romsDir)
		if err != nil {
			return ""
		}
		for _, entry := range entries {
			if entry.IsDir() {
				searchDirs = append(searchDirs, filepath.Join(romsDir, entry.Name()))
			}
		}
	}

	for _, dir := range searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if ext != ".tic" && ext != ".png" {
				continue
			}
			if strings.Contains(name, marker) {
				return filepath.Join(dir, name)
			}
		}
	}
	return ""
}

// FindMediaFile searches a media subdirectory for a .png matching the id.
// Matches " - id.png", " - id (YYYY-MM-DD).png", and " - id ().png".
func FindMediaFile(mediaDir, gameID string) string {
	if gameID == "" {
		return ""
	}
	pattern, err := regexp.Compile(fmt.Sprintf(` - %s(\s\(\d{4}-\d{2}-\d{2}\)|\s\(\))?\.png$`, regexp.QuoteMeta(gameID)))
	if err != nil {
		return ""
	}

	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern.MatchString(entry.Name()) {
			return filepath.Join(mediaDir, entry.Name())
		}
	}
	return ""
}
