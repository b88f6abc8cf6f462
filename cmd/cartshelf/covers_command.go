package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cartshelf/internal/assets"
	"cartshelf/internal/games"
	"cartshelf/internal/imaging"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
)

// minCoverBytes filters out placeholder files left by failed conversions.
const minCoverBytes = 30

func newCoversCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "covers",
		Short: "Download missing cover art from tic80.com",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "covers", false, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return fetchCovers(ctx, cctx, env)
			})
		},
	}
}

func fetchCovers(ctx context.Context, cctx *commandContext, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	client := cctx.tic80Client(env.cfg, env.logger)

	coverDir := filepath.Join(env.cfg.Paths.MediaDir, "cart-covers")
	screenshotDir := filepath.Join(env.cfg.Paths.MediaDir, "screenshots")

	for _, rec := range env.store.Records() {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		gameID := games.PrimaryID(rec)
		md5 := rec[games.FieldTicMD5]
		if gameID == "" || md5 == "" {
			continue
		}

		info := naming.Generate(rec, env.naming)
		coverPath := filepath.Join(coverDir, info.ImageFilename)
		if fi, err := os.Stat(coverPath); err == nil && fi.Size() >= minCoverBytes {
			continue
		}

		log := env.logger.With(logging.GameID(gameID))
		data, err := client.DownloadCover(ctx, md5)
		if err != nil {
			log.Debug("no cover available", logging.Error(err))
			counts.Skipped++
			continue
		}
		if err := imaging.ConvertFile(data, coverPath); err != nil {
			log.Warn("convert cover", logging.Error(err))
			counts.Errored++
			continue
		}
		counts.Created++
		log.Info("cover downloaded", logging.String("name", info.ImageFilename))

		screenshotPath := filepath.Join(screenshotDir, info.ImageFilename)
		if copied, err := assets.CopyFallback(coverPath, screenshotPath); err != nil {
			log.Warn("copy cover to screenshots", logging.Error(err))
		} else if copied {
			log.Info("copied cover to screenshots")
		}
	}

	fmt.Fprintf(env.out, "New covers: %d\n", counts.Created)
	return counts, nil
}
