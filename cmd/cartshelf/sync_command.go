package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cartshelf/internal/assets"
	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
)

func newSyncCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rename cartridges and media on disk to match the database",
		Long: "Regenerates every downloaded record's filenames from the current " +
			"metadata and renames the on-disk cartridge and media files to match. " +
			"Run after editing name_overwrite or timestamp overrides in the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "sync", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return syncFilenames(ctx, env)
			})
		},
	}
}

func syncFilenames(ctx context.Context, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts

	for _, rec := range env.store.Records() {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		if rec[games.FieldFileSHA1] == "" {
			continue
		}
		gameID := games.PrimaryID(rec)
		if gameID == "" {
			continue
		}

		oldPath := assets.FindGameFile(env.cfg.Paths.RomsDir, gameID, env.naming.FolderOrganization)
		if oldPath == "" {
			counts.Skipped++
			continue
		}

		log := env.logger.With(logging.GameID(gameID))
		info := naming.Generate(rec, env.naming)
		newPath := filepath.Join(targetRomDir(env, rec), info.RomFilename)

		if oldPath != newPath {
			log.Info("syncing filename",
				logging.String("from", filepath.Base(oldPath)),
				logging.String("to", info.RomFilename))
			if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
				log.Warn("create rom directory", logging.Error(err))
				counts.Errored++
				continue
			}
			if err := os.Rename(oldPath, newPath); err != nil {
				log.Warn("rename cartridge", logging.Error(err))
				counts.Errored++
				continue
			}
			counts.Updated++
		}

		assets.SyncMedia(env.cfg.Paths.MediaDir, rec, info.ImageFilename, env.logger)

		if modTime, ok := games.SelectModTime(rec); ok {
			if fi, err := os.Stat(newPath); err == nil && !fi.ModTime().Equal(modTime) {
				if err := assets.SetModTime(newPath, modTime); err != nil {
					log.Warn("set file time", logging.Error(err))
				}
			}
		}
	}
	return counts, nil
}
