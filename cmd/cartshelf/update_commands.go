package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
	"cartshelf/internal/services/itch"
	"cartshelf/internal/services/tic80"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh database metadata from a catalog",
	}
	updateCmd.AddCommand(newUpdateTic80Command(ctx))
	updateCmd.AddCommand(newUpdateItchCommand(ctx))
	return updateCmd
}

func newUpdateTic80Command(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tic80",
		Short: "Update the database from the tic80.com directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "update tic80", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return updateTic80(ctx, cctx, env)
			})
		},
	}
}

func updateTic80(ctx context.Context, cctx *commandContext, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	client := cctx.tic80Client(env.cfg, env.logger)

	ticIDToDBID := make(map[string]string)
	for _, rec := range env.store.Records() {
		if ticID := rec[games.FieldTicID]; ticID != "" {
			ticIDToDBID[ticID] = games.PrimaryID(rec)
		}
	}

	for _, category := range tic80.Categories {
		listings, err := client.ListCategory(ctx, category)
		if err != nil {
			if ctx.Err() != nil {
				return counts, ctx.Err()
			}
			env.logger.Warn("category listing failed",
				logging.String(logging.FieldCategory, category),
				logging.Error(err))
			counts.Errored++
			continue
		}

		for _, listing := range listings {
			sanitized := naming.SanitizeTitle(listing.Name)
			downloadURL := client.CartURL(listing.MD5, listing.Filename)

			dbID, known := ticIDToDBID[listing.ID]
			if !known {
				rec := games.Record{}
				for _, field := range games.DefaultFields() {
					rec[field] = ""
				}
				rec[games.FieldNameOriginal] = sanitized
				rec[games.FieldID] = listing.ID
				rec[games.FieldTicID] = listing.ID
				rec[games.FieldTicCategory] = category
				rec[games.FieldTicMD5] = listing.MD5
				rec[games.FieldDownloadURL] = downloadURL
				if err := env.store.Put(rec); err != nil {
					env.logger.Warn("add entry", logging.GameID(listing.ID), logging.Error(err))
					counts.Errored++
					continue
				}
				ticIDToDBID[listing.ID] = listing.ID
				counts.Created++
				env.logger.Info("added entry",
					logging.GameID(listing.ID),
					logging.String("name", sanitized),
					logging.String(logging.FieldCategory, category))
				continue
			}

			env.store.Update(dbID, func(rec games.Record) {
				source := strings.ToLower(strings.TrimSpace(rec[games.FieldSource]))
				if source != "" && source != games.SourceTic80 {
					counts.Skipped++
					return
				}

				rec[games.FieldNameOriginal] = sanitized
				rec[games.FieldDownloadURL] = downloadURL
				rec[games.FieldTicCategory] = category

				if rec[games.FieldTicMD5] != listing.MD5 {
					env.logger.Info("cart changed upstream",
						logging.GameID(listing.ID),
						logging.String("name", sanitized))
					rec[games.FieldTicMD5] = listing.MD5
					rec[games.FieldFileMD5] = ""
					rec[games.FieldFileSHA1] = ""
					rec[games.FieldFileCRC] = ""
					rec[games.FieldTicUpdTS] = ""
					rec[games.FieldTicUpdDate] = ""
					counts.Updated++
				}
			})
		}
	}

	fmt.Fprintf(env.out, "New: %d, changed carts: %d, skipped (pinned source): %d\n",
		counts.Created, counts.Updated, counts.Skipped)
	return counts, nil
}

func newUpdateItchCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "itch",
		Short: "Update the database from itch.io browse pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "update itch", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return updateItch(ctx, cctx, env)
			})
		},
	}
}

func updateItch(ctx context.Context, cctx *commandContext, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	client := cctx.itchClient(env.cfg, env.logger)

	dates, err := client.FetchFeedDates(ctx)
	if err != nil {
		return counts, err
	}
	scraped, err := client.ScrapeGames(ctx, dates)
	if err != nil {
		return counts, err
	}

	itchIDToDBID := make(map[string]string)
	for _, rec := range env.store.Records() {
		if itchID := rec[games.FieldItchID]; itchID != "" {
			itchIDToDBID[itchID] = games.PrimaryID(rec)
		}
	}

	for _, game := range scraped {
		dbID, known := itchIDToDBID[game.ID]
		if !known {
			rec := games.Record{}
			for _, field := range games.DefaultFields() {
				rec[field] = ""
			}
			applyItchGame(rec, game)
			rec[games.FieldID] = game.ID
			rec[games.FieldNameOriginal] = game.Title
			rec[games.FieldRomCategory] = games.CategoryItch
			rec[games.FieldSource] = games.SourceItch
			if err := env.store.Put(rec); err != nil {
				env.logger.Warn("add entry", logging.GameID(game.ID), logging.Error(err))
				counts.Errored++
				continue
			}
			itchIDToDBID[game.ID] = game.ID
			counts.Created++
			env.logger.Info("added entry",
				logging.GameID(game.ID),
				logging.String("name", game.Title))
			continue
		}

		env.store.Update(dbID, func(rec games.Record) {
			previousUpd := parseFloatField(rec[games.FieldItchUpdTS])
			applyItchGame(rec, game)
			if newUpd := parseFloatField(game.UpdTimestamp); previousUpd < newUpd {
				// The page changed but only a download tells whether the
				// cart itself did. Clear the last-modified marker so the
				// next fetch re-checks it.
				rec[games.FieldItchLastmodDate] = ""
				rec[games.FieldItchLastmodTS] = ""
				env.logger.Info("possible cart update",
					logging.GameID(game.ID),
					logging.String("name", game.Title))
			}
			counts.Updated++
		})
	}

	fmt.Fprintf(env.out, "New: %d, updated: %d\n", counts.Created, counts.Updated)
	return counts, nil
}

// applyItchGame copies scraped fields onto a record. Date fields are only
// written when the scrape produced them so feed dates from earlier runs are
// not wiped on a feedless page.
func applyItchGame(rec games.Record, game itch.Game) {
	rec[games.FieldItchID] = game.ID
	rec[games.FieldItchTitle] = game.Title
	rec[games.FieldItchPage] = game.Page
	rec[games.FieldItchAuthor] = game.AuthorName
	rec[games.FieldItchAuthorSlug] = game.AuthorSlug
	rec[games.FieldItchAuthorID] = game.AuthorID
	rec[games.FieldItchDesc] = game.Description
	rec[games.FieldItchGenre] = game.Genre
	if game.PubDate != "" {
		rec[games.FieldItchPubDate] = game.PubDate
		rec[games.FieldItchPubTS] = game.PubTimestamp
	}
	if game.UpdDate != "" {
		rec[games.FieldItchUpdDate] = game.UpdDate
		rec[games.FieldItchUpdTS] = game.UpdTimestamp
	}
}

func parseFloatField(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return v
}
