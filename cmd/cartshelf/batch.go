package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cartshelf/internal/config"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
	"cartshelf/internal/services"
	"cartshelf/internal/store"
)

// batchEnv carries everything a batch command body needs.
type batchEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	naming naming.Options
	out    io.Writer
}

// runBatch wraps one batch command: it opens the database, records the run in
// the journal, and installs the interrupt handler. An interrupt cancels the
// context; the store is still saved afterwards so completed work survives,
// and the run is marked interrupted.
func (c *commandContext) runBatch(cmd *cobra.Command, command string, saveStore bool, fn func(ctx context.Context, env *batchEnv) (journal.Counts, error)) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Paths.DatabaseCSV, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := journal.Open(cfg.Paths.LogDir)
	if err != nil {
		logger.Warn("journal unavailable", logging.Error(err))
		runs = nil
	}
	defer runs.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runID string
	if runs != nil {
		if runID, err = runs.Begin(ctx, command); err != nil {
			logger.Warn("begin journal run", logging.Error(err))
			runID = ""
		}
	}
	ctx = services.WithCommand(ctx, command)
	ctx = services.WithRunID(ctx, runID)

	env := &batchEnv{
		cfg:    cfg,
		logger: logger,
		store:  db,
		naming: c.namingOptions(cfg),
		out:    cmd.OutOrStdout(),
	}
	counts, runErr := fn(ctx, env)

	if saveStore {
		if err := db.Save(); err != nil {
			logger.Error("save database", logging.Error(err))
			if runErr == nil {
				runErr = err
			}
		}
	}

	if runs != nil && runID != "" {
		outcome := journal.OutcomeCompleted
		note := ""
		switch {
		case errors.Is(runErr, context.Canceled):
			outcome = journal.OutcomeInterrupted
		case runErr != nil:
			outcome = journal.OutcomeFailed
			note = runErr.Error()
		}
		if err := runs.Finish(context.Background(), runID, outcome, counts, note); err != nil {
			logger.Warn("finish journal run", logging.Error(err))
		}
	}
	return runErr
}
