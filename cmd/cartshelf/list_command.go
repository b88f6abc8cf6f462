package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cartshelf/internal/games"
	"cartshelf/internal/store"
)

func newListCommand(cctx *commandContext) *cobra.Command {
	var hashedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cctx.ensureLogger()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Paths.DatabaseCSV, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			records := db.Records()
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				hashed := rec[games.FieldFileSHA1] != ""
				if hashedOnly && !hashed {
					continue
				}
				name := rec[games.FieldNameOverwrite]
				if name == "" {
					name = rec[games.FieldNameOriginal]
				}
				if name == "" {
					name = rec[games.FieldItchTitle]
				}
				rows = append(rows, []string{
					games.PrimaryID(rec),
					name,
					games.Category(rec),
					rec[games.FieldSource],
					yesNo(hashed),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Category", "Source", "Downloaded"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d records\n", len(rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&hashedOnly, "downloaded", false, "Only show records with a downloaded cartridge")
	return cmd
}
