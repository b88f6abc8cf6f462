package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cartshelf/internal/describe"
	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/services/llm"
)

func newDescribeCommand(cctx *commandContext) *cobra.Command {
	var force bool
	var workers int

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate game descriptions with a language model",
		Long: "Sends each game's catalog metadata and cartridge source code to the " +
			"configured inference endpoint and stores the returned description, " +
			"genre, and player count as a per-game JSON file. Merge the results " +
			"with `cartshelf import json`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "describe", false, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return describeGames(ctx, env, force, workers)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Regenerate descriptions that already exist")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent model calls (default from config)")
	return cmd
}

func describeGames(ctx context.Context, env *batchEnv, force bool, workers int) (journal.Counts, error) {
	var counts journal.Counts

	if strings.TrimSpace(env.cfg.LLM.APIKey) == "" {
		return counts, errors.New("no API key configured; set llm.api_key or the CARTSHELF_LLM_API_KEY environment variable")
	}
	client := llm.NewClient(llm.Config{
		APIKey:         env.cfg.LLM.APIKey,
		BaseURL:        env.cfg.LLM.BaseURL,
		Model:          env.cfg.LLM.Model,
		TimeoutSeconds: env.cfg.LLM.TimeoutSeconds,
	})
	if workers <= 0 {
		workers = env.cfg.LLM.Workers
	}

	var tasks []describe.Task
	for _, rec := range env.store.Records() {
		if games.Category(rec) != games.CategoryGames {
			continue
		}
		gameID := games.PrimaryID(rec)
		if gameID == "" {
			continue
		}
		tasks = append(tasks, describe.Task{
			GameID: gameID,
			Info: llm.GameInfo{
				Title:     rec[games.FieldNameOriginal],
				Summaries: recordSummaries(rec),
			},
		})
	}
	env.logger.Info("description candidates", logging.Int(logging.FieldCount, len(tasks)))

	runner := describe.New(client, env.cfg.Paths.SourceCodeDir, env.cfg.Paths.DescribeOutDir, workers, force, env.logger)
	results, err := runner.Run(ctx, tasks)

	counts.Created = results.Processed
	counts.Skipped = results.SkippedExists + results.SkippedNoSource
	counts.Errored = results.Errors
	fmt.Fprintf(env.out, "Processed: %d, skipped (existing): %d, skipped (no source): %d, errors: %d\n",
		results.Processed, results.SkippedExists, results.SkippedNoSource, results.Errors)
	return counts, err
}

// recordSummaries collects every catalog description for the prompt, best
// sources first.
func recordSummaries(rec games.Record) []string {
	var summaries []string
	for _, field := range []string{
		games.FieldSscrpDesc, games.FieldTicDesc, games.FieldTicDescExtra,
		games.FieldItchDesc, games.FieldItchDescExtra,
	} {
		if v := strings.TrimSpace(rec[field]); v != "" {
			summaries = append(summaries, v)
		}
	}
	return summaries
}
