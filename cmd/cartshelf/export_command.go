package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cartshelf/internal/assets"
	"cartshelf/internal/config"
	"cartshelf/internal/gamelist"
	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
)

func newExportCommand(cctx *commandContext) *cobra.Command {
	var dest string
	var all, almostAll, distributionSafe bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a filtered collection subset to a destination",
		Long: "Copies the selected cartridges and their media into a destination " +
			"directory using single-folder naming, and writes a fresh gamelist.xml " +
			"there. The default selection is the curated collection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "export", false, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return exportCollection(ctx, env, dest, pickSelection(all, almostAll, distributionSafe))
			})
		},
	}
	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory for the exported collection")
	cmd.Flags().BoolVar(&all, "all", false, "Export every downloaded record, ignoring collection filters")
	cmd.Flags().BoolVar(&almostAll, "almost-all", false, "Export the broad collection (include_in_collection)")
	cmd.Flags().BoolVar(&distributionSafe, "distribution-safe", false, "Export the curated collection minus records with an unsafe distribution license")
	cmd.MarkFlagsMutuallyExclusive("all", "almost-all", "distribution-safe")
	_ = cmd.MarkFlagRequired("dest")
	return cmd
}

func exportCollection(ctx context.Context, env *batchEnv, dest string, sel selection) (journal.Counts, error) {
	var counts journal.Counts

	destPath, err := config.ExpandPath(dest)
	if err != nil {
		return counts, err
	}
	mediaDirs := []string{"screenshots", "titlescreens", "cart-covers"}
	for _, dir := range append([]string{""}, mediaDirs...) {
		if err := os.MkdirAll(filepath.Join(destPath, dir), 0o755); err != nil {
			return counts, fmt.Errorf("create export directory: %w", err)
		}
	}

	// Exports always use single-folder naming with the category suffix so the
	// destination is self-describing without subfolders.
	exportOpts := env.naming
	exportOpts.FolderOrganization = naming.OrganizationSingle
	exportOpts.CategoryParenthesis = true

	var exported []games.Record
	for _, rec := range env.store.Records() {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		if rec[games.FieldFileSHA1] == "" || !sel.includes(rec) {
			continue
		}
		gameID := games.PrimaryID(rec)
		if gameID == "" {
			continue
		}
		log := env.logger.With(logging.GameID(gameID))

		sourcePath := assets.FindGameFile(env.cfg.Paths.RomsDir, gameID, env.naming.FolderOrganization)
		if sourcePath == "" {
			log.Debug("cartridge not on disk")
			counts.Skipped++
			continue
		}

		info := naming.Generate(rec, exportOpts)
		if err := copyPreservingTime(sourcePath, filepath.Join(destPath, info.RomFilename)); err != nil {
			log.Warn("export cartridge", logging.Error(err))
			counts.Errored++
			continue
		}
		counts.Created++
		log.Info("exported cartridge", logging.String("name", info.RomFilename))

		for _, mediaType := range mediaDirs {
			source := assets.FindMediaFile(filepath.Join(env.cfg.Paths.MediaDir, mediaType), gameID)
			if source == "" {
				continue
			}
			target := filepath.Join(destPath, mediaType, info.ImageFilename)
			if err := copyPreservingTime(source, target); err != nil {
				log.Warn("export media",
					logging.String("media_type", mediaType),
					logging.Error(err))
			}
		}
		exported = append(exported, rec)
	}

	count, err := gamelist.WriteFile(filepath.Join(destPath, "gamelist.xml"), exported, gamelist.Options{
		Naming:   exportOpts,
		ImageDir: "screenshots",
	})
	if err != nil {
		return counts, err
	}

	fmt.Fprintf(env.out, "Exported %d cartridges and a %d-entry gamelist to %s\n", counts.Created, count, destPath)
	return counts, nil
}

// copyPreservingTime copies src to dst and carries the modification time
// over, since frontends read release recency from file times.
func copyPreservingTime(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
