package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cartshelf/internal/gamelist"
	"cartshelf/internal/journal"
)

func newGamelistCommand(cctx *commandContext) *cobra.Command {
	var imageDir string
	cmd := &cobra.Command{
		Use:   "gamelist",
		Short: "Generate the gamelist.xml for frontend scrapers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "gamelist", false, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				var counts journal.Counts
				count, err := gamelist.WriteFile(env.cfg.Paths.GamelistPath, env.store.Records(), gamelist.Options{
					Naming:   env.naming,
					ImageDir: imageDir,
				})
				if err != nil {
					return counts, err
				}
				counts.Updated = count
				fmt.Fprintf(env.out, "Wrote %d entries to %s\n", count, env.cfg.Paths.GamelistPath)
				return counts, nil
			})
		},
	}
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Image directory referenced by <image> entries (default screenshots)")
	return cmd
}
