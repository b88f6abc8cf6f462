package assets

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cartshelf/internal/games"
	"cartshelf/internal/logging"
)

// SyncMedia renames or copies every media image belonging to a record so its
// name matches imageFilename. Media found under the record's own identity is
// moved; media found only under the alternate catalog's identity is copied,
// keeping the other catalog's files intact.
func SyncMedia(mediaDir string, rec games.Record, imageFilename string, logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	gameID := games.PrimaryID(rec)
	if gameID == "" {
		return
	}

	for _, mediaType := range MediaTypes {
		dir := filepath.Join(mediaDir, mediaType)
		target := filepath.Join(dir, imageFilename)

		var source string
		move := false
		if found := FindMediaFile(dir, gameID); found != "" {
			source, move = found, true
		} else if secondary := games.SecondaryID(rec); secondary != "" {
			if found := FindMediaFile(dir, secondary); found != "" {
				source, move = found, false
			}
		}
		if source == "" || source == target {
			continue
		}

		var err error
		if move {
			err = os.Rename(source, target)
		} else {
			err = copyFile(source, target)
		}
		if err != nil {
			logger.Warn("media sync failed",
				logging.GameID(gameID),
				logging.String("media_type", mediaType),
				logging.Error(err))
			continue
		}
		logger.Info("media synced",
			logging.GameID(gameID),
			logging.String("media_type", mediaType),
			logging.String("name", imageFilename),
			logging.Bool("copied", !move))
	}
}

// CopyFallback copies src to dst when dst is missing, used to reuse a
// screenshot as a cover (or the reverse) when only one exists.
func CopyFallback(src, dst string) (bool, error) {
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	}
	if _, err := os.Stat(src); err != nil {
		return false, nil
	}
	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
