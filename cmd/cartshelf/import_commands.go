package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"cartshelf/internal/config"
	"cartshelf/internal/games"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Merge external metadata into the database",
	}
	importCmd.AddCommand(newImportXMLCommand(ctx))
	importCmd.AddCommand(newImportJSONCommand(ctx))
	return importCmd
}

// pathIDPattern extracts the game id from the " - <id> (" filename
// convention used throughout the collection.
var pathIDPattern = regexp.MustCompile(` - (\d+) \(`)

type scraperGame struct {
	ID      string `xml:"id,attr"`
	Path    string `xml:"path"`
	Desc    string `xml:"desc"`
	Genre   string `xml:"genre"`
	Players string `xml:"players"`
}

type scraperGameList struct {
	Games []scraperGame `xml:"game"`
}

func newImportXMLCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "xml <file>",
		Short: "Import scraper metadata from a gamelist-style XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "import xml", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return importXML(env, args[0])
			})
		},
	}
}

func importXML(env *batchEnv, file string) (journal.Counts, error) {
	var counts journal.Counts

	path, err := config.ExpandPath(file)
	if err != nil {
		return counts, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return counts, fmt.Errorf("read xml file: %w", err)
	}

	var list scraperGameList
	if err := xml.Unmarshal(data, &list); err != nil {
		return counts, fmt.Errorf("parse xml file: %w", err)
	}

	imported := make(map[string]scraperGame, len(list.Games))
	for _, game := range list.Games {
		m := pathIDPattern.FindStringSubmatch(game.Path)
		if m == nil {
			continue
		}
		imported[m[1]] = game
	}
	env.logger.Info("scraper entries parsed", logging.Int(logging.FieldCount, len(imported)))

	for _, rec := range env.store.Records() {
		game, ok := imported[rec[games.FieldID]]
		if !ok {
			continue
		}
		env.store.Update(games.PrimaryID(rec), func(r games.Record) {
			if game.ID != "" {
				r["sscrp_id2"] = game.ID
			}
			if desc := strings.TrimSpace(game.Desc); desc != "" {
				r[games.FieldSscrpDesc] = strings.ReplaceAll(desc, "\n", `\n`)
			}
			if genre := strings.TrimSpace(game.Genre); genre != "" {
				r[games.FieldSccrpGenre] = genre
			}
			if players := strings.TrimSpace(game.Players); players != "" {
				r[games.FieldNumPlayers] = players
			}
		})
		counts.Updated++
	}

	fmt.Fprintf(env.out, "Updated %d records from %s\n", counts.Updated, path)
	return counts, nil
}

func newImportJSONCommand(cctx *commandContext) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Import generated descriptions from per-game JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "import json", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				sourceDir := dir
				if sourceDir == "" {
					sourceDir = env.cfg.Paths.DescribeOutDir
				}
				return importJSON(env, sourceDir)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of {id}.json files (default the configured describe output)")
	return cmd
}

func importJSON(env *batchEnv, dir string) (journal.Counts, error) {
	var counts journal.Counts

	sourceDir, err := config.ExpandPath(dir)
	if err != nil {
		return counts, err
	}
	files, err := filepath.Glob(filepath.Join(sourceDir, "*.json"))
	if err != nil {
		return counts, fmt.Errorf("scan json directory: %w", err)
	}

	for _, file := range files {
		gameID := games.NormalizeID(strings.TrimSuffix(filepath.Base(file), ".json"))
		log := env.logger.With(logging.GameID(gameID))

		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn("read json file", logging.Error(err))
			counts.Errored++
			continue
		}
		var payload struct {
			Description string `json:"description"`
			Genre       string `json:"genre"`
			NumPlayers  string `json:"num_player"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			log.Warn("parse json file", logging.Error(err))
			counts.Errored++
			continue
		}

		if _, ok := env.store.Get(gameID); !ok {
			log.Debug("no matching database entry")
			counts.Skipped++
			continue
		}
		env.store.Update(gameID, func(r games.Record) {
			if payload.Description != "" {
				r[games.FieldOverwriteDesc] = payload.Description
			}
			if payload.Genre != "" {
				r[games.FieldOverwriteGenre] = payload.Genre
			}
			if payload.NumPlayers != "" {
				r[games.FieldNumPlayers] = payload.NumPlayers
			}
		})
		counts.Updated++
	}

	fmt.Fprintf(env.out, "Updated %d records from %d JSON files\n", counts.Updated, len(files))
	return counts, nil
}
