package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cartshelf/internal/assets"
	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
)

func newHashesCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hashes",
		Short: "Recompute content hashes for on-disk cartridges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "hashes", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return recalculateHashes(ctx, env)
			})
		},
	}
}

func recalculateHashes(ctx context.Context, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	processed := 0

	for _, rec := range env.store.Records() {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		gameID := games.PrimaryID(rec)
		if gameID == "" {
			continue
		}
		path := assets.FindGameFile(env.cfg.Paths.RomsDir, gameID, env.naming.FolderOrganization)
		if path == "" {
			continue
		}
		processed++

		hashes, err := assets.Hashes(path)
		if err != nil {
			env.logger.Warn("hash file", logging.GameID(gameID), logging.Error(err))
			counts.Errored++
			continue
		}
		if rec[games.FieldFileMD5] == hashes.MD5 &&
			rec[games.FieldFileSHA1] == hashes.SHA1 &&
			rec[games.FieldFileCRC] == hashes.CRC {
			continue
		}

		env.logger.Info("hashes updated", logging.GameID(gameID))
		env.store.Update(gameID, func(r games.Record) {
			applyHashes(r, hashes)
		})
		counts.Updated++
	}

	fmt.Fprintf(env.out, "Processed %d cartridge files, updated %d entries\n", processed, counts.Updated)
	return counts, nil
}
