package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cartshelf/internal/assets"
	"cartshelf/internal/games"
	"cartshelf/internal/imaging"
	"cartshelf/internal/journal"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
	"cartshelf/internal/preflight"
	"cartshelf/internal/services/ipfs"
	"cartshelf/internal/services/itch"
	"cartshelf/internal/services/tic80"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download missing or updated cartridges and media",
	}
	fetchCmd.AddCommand(newFetchTic80Command(ctx))
	fetchCmd.AddCommand(newFetchItchCommand(ctx))
	fetchCmd.AddCommand(newFetchIPFSCommand(ctx))
	return fetchCmd
}

// selection names the record filter shared by fetch and export.
type selection int

const (
	selectCurated selection = iota
	selectAlmostAll
	selectAll
	selectDistributionSafe
)

func (s selection) includes(rec games.Record) bool {
	switch s {
	case selectAll:
		return true
	case selectAlmostAll:
		return games.InCollection(rec)
	case selectDistributionSafe:
		return games.InCuratedCollection(rec) && games.DistributionSafe(rec)
	default:
		return games.InCuratedCollection(rec)
	}
}

func pickSelection(all, almostAll, distributionSafe bool) selection {
	switch {
	case all:
		return selectAll
	case almostAll:
		return selectAlmostAll
	case distributionSafe:
		return selectDistributionSafe
	default:
		return selectCurated
	}
}

type fetchOutcome int

const (
	outcomeDownloaded fetchOutcome = iota
	outcomeUpToDate
	outcomeFailed
)

func checkPreflight(env *batchEnv) error {
	results := preflight.RunDownloadChecks(env.cfg)
	for _, result := range results {
		if !result.Passed {
			env.logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
		}
	}
	if !preflight.AllPassed(results) {
		return fmt.Errorf("preflight checks failed; resolve the reported problems and retry")
	}
	return nil
}

// targetRomDir resolves the directory a record's cartridge belongs in.
func targetRomDir(env *batchEnv, rec games.Record) string {
	if env.naming.FolderOrganization == naming.OrganizationMultiple {
		return filepath.Join(env.cfg.Paths.RomsDir, games.Category(rec))
	}
	return env.cfg.Paths.RomsDir
}

func writeCart(targetPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create rom directory: %w", err)
	}
	if err := os.WriteFile(targetPath, data, 0o644); err != nil {
		return fmt.Errorf("write cartridge: %w", err)
	}
	return nil
}

func applyHashes(rec games.Record, h assets.FileHashes) {
	rec[games.FieldFileMD5] = h.MD5
	rec[games.FieldFileSHA1] = h.SHA1
	rec[games.FieldFileCRC] = h.CRC
}

// backupOldCart moves a superseded cartridge into the backup directory.
func backupOldCart(env *batchEnv, oldPath string) {
	backupDir := env.cfg.Paths.BackupRomsDir
	if backupDir == "" {
		return
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		env.logger.Warn("create backup directory", logging.Error(err))
		return
	}
	if err := os.Rename(oldPath, filepath.Join(backupDir, filepath.Base(oldPath))); err != nil {
		env.logger.Warn("move old cartridge to backup",
			logging.String(logging.FieldPath, oldPath),
			logging.Error(err))
	}
}

// applyPlayMeta copies play-page metadata onto a record. Date columns are
// derived from the timestamps in UTC.
func applyPlayMeta(rec games.Record, meta tic80.PageMeta) {
	rec[games.FieldTicAuthor] = meta.AuthorName
	rec[games.FieldTicUploader] = meta.UploaderName
	rec[games.FieldTicUploaderID] = meta.UploaderID
	rec[games.FieldTicDesc] = meta.Description
	rec[games.FieldTicDescExtra] = meta.DescriptionExtra
	if meta.PubTimestamp != "" {
		rec[games.FieldTicPubTS] = meta.PubTimestamp
		rec[games.FieldTicPubDate] = timestampToDate(meta.PubTimestamp)
	}
	if meta.UpdTimestamp != "" {
		rec[games.FieldTicUpdTS] = meta.UpdTimestamp
		rec[games.FieldTicUpdDate] = timestampToDate(meta.UpdTimestamp)
	}
	if rec[games.FieldTicUpdTS] == "" && rec[games.FieldTicPubTS] != "" {
		rec[games.FieldTicUpdTS] = rec[games.FieldTicPubTS]
		rec[games.FieldTicUpdDate] = rec[games.FieldTicPubDate]
	}
}

func timestampToDate(timestamp string) string {
	seconds := parseFloatField(timestamp)
	if seconds <= 0 {
		return ""
	}
	return time.Unix(int64(seconds), 0).UTC().Format(games.DateLayout)
}

func newFetchTic80Command(cctx *commandContext) *cobra.Command {
	var all, almostAll bool
	cmd := &cobra.Command{
		Use:   "tic80",
		Short: "Download cartridges and metadata from tic80.com",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "fetch tic80", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return fetchTic80(ctx, cctx, env, pickSelection(all, almostAll, false))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Process every record missing a file hash, ignoring collection filters")
	cmd.Flags().BoolVar(&almostAll, "almost-all", false, "Process the broad collection (include_in_collection)")
	cmd.MarkFlagsMutuallyExclusive("all", "almost-all")
	return cmd
}

func fetchTic80(ctx context.Context, cctx *commandContext, env *batchEnv, sel selection) (journal.Counts, error) {
	var counts journal.Counts
	if err := checkPreflight(env); err != nil {
		return counts, err
	}
	client := cctx.tic80Client(env.cfg, env.logger)

	var toProcess []string
	for _, rec := range env.store.Records() {
		if rec[games.FieldFileSHA1] != "" || !sel.includes(rec) {
			continue
		}
		source := strings.ToLower(strings.TrimSpace(rec[games.FieldSource]))
		if source != "" && source != games.SourceTic80 {
			counts.Skipped++
			continue
		}
		if id := games.PrimaryID(rec); id != "" {
			toProcess = append(toProcess, id)
		}
	}
	env.logger.Info("download candidates", logging.Int(logging.FieldCount, len(toProcess)))

	for _, id := range toProcess {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		rec, ok := env.store.Get(id)
		if !ok {
			continue
		}
		switch fetchTic80One(ctx, client, env, id, rec) {
		case outcomeDownloaded:
			counts.Updated++
		case outcomeUpToDate:
			counts.Skipped++
		default:
			counts.Errored++
		}
		if err := env.store.Put(rec); err != nil {
			env.logger.Warn("store record", logging.GameID(id), logging.Error(err))
		}
	}
	return counts, nil
}

func fetchTic80One(ctx context.Context, client *tic80.Client, env *batchEnv, gameID string, rec games.Record) fetchOutcome {
	log := env.logger.With(logging.GameID(gameID))

	meta, err := client.PlayPage(ctx, gameID)
	if err != nil {
		log.Warn("play page failed", logging.Error(err))
		return outcomeFailed
	}
	applyPlayMeta(rec, meta)

	info := naming.Generate(rec, env.naming)
	newPath := filepath.Join(targetRomDir(env, rec), info.RomFilename)
	apiMD5 := rec[games.FieldTicMD5]

	oldPath := assets.FindGameFile(env.cfg.Paths.RomsDir, gameID, env.naming.FolderOrganization)
	shouldDownload := true
	if oldPath != "" {
		if hashes, err := assets.Hashes(oldPath); err == nil && strings.EqualFold(hashes.MD5, apiMD5) {
			shouldDownload = false
			if oldPath != newPath {
				log.Info("correcting filename",
					logging.String("from", filepath.Base(oldPath)),
					logging.String("to", info.RomFilename))
				if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err == nil {
					if err := os.Rename(oldPath, newPath); err != nil {
						log.Warn("rename cartridge", logging.Error(err))
					}
				}
			}
		}
	}
	if oldPath != "" && shouldDownload {
		backupOldCart(env, oldPath)
	}

	outcome := outcomeUpToDate
	if shouldDownload {
		downloadURL := rec[games.FieldDownloadURL]
		if downloadURL == "" || apiMD5 == "" {
			log.Warn("no download location recorded")
			return outcomeFailed
		}
		data, modified, err := client.DownloadCart(ctx, apiMD5, path.Base(downloadURL))
		if err != nil {
			log.Warn("download failed", logging.Error(err))
			return outcomeFailed
		}
		if err := writeCart(newPath, data); err != nil {
			log.Warn("save cartridge", logging.Error(err))
			return outcomeFailed
		}

		hashes := assets.HashBytes(data)
		if !strings.EqualFold(hashes.MD5, apiMD5) {
			log.Warn("hash mismatch after download; keeping file",
				logging.String("expected", apiMD5),
				logging.String("got", hashes.MD5))
		}
		applyHashes(rec, hashes)

		modTime, ok := games.SelectModTime(rec)
		if parseFloatField(rec[games.FieldOverwriteUpdTS]) <= 0 && !modified.IsZero() {
			if !ok || modified.Before(modTime) {
				modTime, ok = modified, true
			}
		}
		if ok {
			if err := assets.SetModTime(newPath, modTime); err != nil {
				log.Warn("set file time", logging.Error(err))
			}
		}
		outcome = outcomeDownloaded
	}

	assets.SyncMedia(env.cfg.Paths.MediaDir, rec, info.ImageFilename, env.logger)
	syncTic80Cover(ctx, client, env, rec, info, shouldDownload, log)
	return outcome
}

// syncTic80Cover downloads the cover when missing or freshly updated, and
// copies a cover or titlescreen into the screenshots directory when no
// curated screenshot exists.
func syncTic80Cover(ctx context.Context, client *tic80.Client, env *batchEnv, rec games.Record, info naming.FileInfo, refreshed bool, log *slog.Logger) {
	coverPath := filepath.Join(env.cfg.Paths.MediaDir, "cart-covers", info.ImageFilename)
	if _, err := os.Stat(coverPath); refreshed || err != nil {
		if md5 := rec[games.FieldTicMD5]; md5 != "" {
			if data, err := client.DownloadCover(ctx, md5); err != nil {
				log.Debug("cover download failed", logging.Error(err))
			} else if err := imaging.ConvertFile(data, coverPath); err != nil {
				log.Warn("convert cover", logging.Error(err))
			}
		}
	}

	screenshotPath := filepath.Join(env.cfg.Paths.MediaDir, "screenshots", info.ImageFilename)
	titlePath := filepath.Join(env.cfg.Paths.MediaDir, "titlescreens", info.ImageFilename)
	if _, err := os.Stat(coverPath); err == nil {
		if copied, err := assets.CopyFallback(coverPath, screenshotPath); err == nil && copied {
			log.Info("copied cover to screenshots")
		}
	} else if _, err := os.Stat(titlePath); err == nil {
		if copied, err := assets.CopyFallback(titlePath, screenshotPath); err == nil && copied {
			log.Info("copied titlescreen to screenshots")
		}
	}
}

func newFetchItchCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "itch",
		Short: "Download cartridges and screenshots from itch.io",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "fetch itch", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return fetchItch(ctx, cctx, env)
			})
		},
	}
}

func fetchItch(ctx context.Context, cctx *commandContext, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	if err := checkPreflight(env); err != nil {
		return counts, err
	}
	client := cctx.itchClient(env.cfg, env.logger)

	var toProcess []string
	for _, rec := range env.store.Records() {
		if rec[games.FieldSource] != games.SourceItch || rec[games.FieldItchLastmodDate] != "" {
			continue
		}
		if id := games.PrimaryID(rec); id != "" {
			toProcess = append(toProcess, id)
		}
	}
	env.logger.Info("download candidates", logging.Int(logging.FieldCount, len(toProcess)))

	for _, id := range toProcess {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		rec, ok := env.store.Get(id)
		if !ok {
			continue
		}
		switch fetchItchOne(ctx, client, env, id, rec) {
		case outcomeDownloaded:
			counts.Updated++
		case outcomeUpToDate:
			counts.Skipped++
		default:
			counts.Errored++
		}
		if err := env.store.Put(rec); err != nil {
			env.logger.Warn("store record", logging.GameID(id), logging.Error(err))
		}
	}
	return counts, nil
}

func fetchItchOne(ctx context.Context, client *itch.Client, env *batchEnv, gameID string, rec games.Record) fetchOutcome {
	log := env.logger.With(logging.GameID(gameID))

	page := rec[games.FieldItchPage]
	if page == "" {
		log.Debug("no game page recorded")
		return outcomeUpToDate
	}

	cart, err := client.FindCart(ctx, page)
	if err != nil {
		log.Warn("cart download failed", logging.Error(err))
		return outcomeFailed
	}

	applyHashes(rec, assets.HashBytes(cart.Content))
	if !cart.LastModified.IsZero() {
		rec[games.FieldItchLastmodDate] = cart.LastModified.UTC().Format(games.DateLayout)
		rec[games.FieldItchLastmodTS] = strconv.FormatInt(cart.LastModified.Unix(), 10)
	}

	info := naming.Generate(rec, env.naming)
	newPath := filepath.Join(targetRomDir(env, rec), info.RomFilename)

	if oldPath := assets.FindGameFile(env.cfg.Paths.RomsDir, rec[games.FieldItchID], env.naming.FolderOrganization); oldPath != "" && oldPath != newPath {
		if err := os.Remove(oldPath); err != nil {
			log.Warn("remove old cartridge", logging.Error(err))
		}
	}
	if err := writeCart(newPath, cart.Content); err != nil {
		log.Warn("save cartridge", logging.Error(err))
		return outcomeFailed
	}
	if !cart.LastModified.IsZero() {
		if err := assets.SetModTime(newPath, cart.LastModified); err != nil {
			log.Warn("set file time", logging.Error(err))
		}
	}
	log.Info("cartridge downloaded", logging.String("name", info.RomFilename))

	fetchItchScreenshots(ctx, client, env, cart.ScreenshotURLs, info, log)
	return outcomeDownloaded
}

// fetchItchScreenshots stores page screenshots under itch-screenshots with a
// sequence suffix and seeds the curated screenshots directory with the first
// one when it is empty for this game.
func fetchItchScreenshots(ctx context.Context, client *itch.Client, env *batchEnv, urls []string, info naming.FileInfo, log *slog.Logger) {
	if len(urls) == 0 {
		return
	}
	itchDir := filepath.Join(env.cfg.Paths.MediaDir, "itch-screenshots")
	curatedDir := filepath.Join(env.cfg.Paths.MediaDir, "screenshots")
	baseName := strings.TrimSuffix(info.ImageFilename, ".png")

	for i, url := range urls {
		sequence := i + 1
		targetPath := filepath.Join(itchDir, fmt.Sprintf("%s (%d).png", baseName, sequence))
		if _, err := os.Stat(targetPath); err == nil {
			continue
		}
		data, err := client.DownloadImage(ctx, url)
		if err != nil {
			log.Debug("screenshot download failed", logging.Error(err))
			continue
		}
		if err := imaging.ConvertFile(data, targetPath); err != nil {
			log.Warn("convert screenshot", logging.Error(err))
			continue
		}
		if sequence == 1 {
			curatedPath := filepath.Join(curatedDir, info.ImageFilename)
			if copied, err := assets.CopyFallback(targetPath, curatedPath); err == nil && copied {
				log.Info("copied screenshot to curated set")
			}
		}
	}
}

func newFetchIPFSCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ipfs",
		Short: "Download cartridges pinned on IPFS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.runBatch(cmd, "fetch ipfs", true, func(ctx context.Context, env *batchEnv) (journal.Counts, error) {
				return fetchIPFS(ctx, cctx, env)
			})
		},
	}
}

func fetchIPFS(ctx context.Context, cctx *commandContext, env *batchEnv) (journal.Counts, error) {
	var counts journal.Counts
	if err := checkPreflight(env); err != nil {
		return counts, err
	}
	client := cctx.ipfsClient(env.cfg, env.logger)

	var toProcess []string
	for _, rec := range env.store.Records() {
		source := strings.ToLower(strings.TrimSpace(rec[games.FieldSource]))
		if source != games.SourceIPFS || rec[games.FieldIPFSCID] == "" {
			continue
		}
		if id := games.PrimaryID(rec); id != "" {
			toProcess = append(toProcess, id)
		}
	}
	env.logger.Info("download candidates", logging.Int(logging.FieldCount, len(toProcess)))

	for _, id := range toProcess {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		rec, ok := env.store.Get(id)
		if !ok {
			continue
		}
		switch fetchIPFSOne(ctx, client, env, id, rec) {
		case outcomeDownloaded:
			counts.Updated++
		case outcomeUpToDate:
			counts.Skipped++
		default:
			counts.Errored++
		}
		if err := env.store.Put(rec); err != nil {
			env.logger.Warn("store record", logging.GameID(id), logging.Error(err))
		}
	}
	return counts, nil
}

func fetchIPFSOne(ctx context.Context, client *ipfs.Client, env *batchEnv, gameID string, rec games.Record) fetchOutcome {
	log := env.logger.With(logging.GameID(gameID))

	info := naming.Generate(rec, env.naming)
	newPath := filepath.Join(targetRomDir(env, rec), info.RomFilename)

	oldPath := assets.FindGameFile(env.cfg.Paths.RomsDir, gameID, env.naming.FolderOrganization)
	shouldDownload := true
	if oldPath != "" {
		storedSHA1 := strings.TrimSpace(rec[games.FieldFileSHA1])
		if hashes, err := assets.Hashes(oldPath); err == nil && storedSHA1 != "" && strings.EqualFold(hashes.SHA1, storedSHA1) {
			shouldDownload = false
			if oldPath != newPath {
				log.Info("correcting filename",
					logging.String("from", filepath.Base(oldPath)),
					logging.String("to", info.RomFilename))
				if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err == nil {
					if err := os.Rename(oldPath, newPath); err != nil {
						log.Warn("rename cartridge", logging.Error(err))
					}
				}
			}
		} else {
			backupOldCart(env, oldPath)
		}
	}

	outcome := outcomeUpToDate
	if shouldDownload {
		data, gateway, err := client.Fetch(ctx, rec[games.FieldIPFSCID])
		if err != nil {
			log.Warn("all gateways failed", logging.Error(err))
			return outcomeFailed
		}
		if err := writeCart(newPath, data); err != nil {
			log.Warn("save cartridge", logging.Error(err))
			return outcomeFailed
		}
		applyHashes(rec, assets.HashBytes(data))
		if modTime, ok := games.SelectModTime(rec); ok {
			if err := assets.SetModTime(newPath, modTime); err != nil {
				log.Warn("set file time", logging.Error(err))
			}
		}
		log.Info("cartridge downloaded", logging.String("gateway", gateway))
		outcome = outcomeDownloaded
	}

	assets.SyncMedia(env.cfg.Paths.MediaDir, rec, info.ImageFilename, env.logger)
	return outcome
}
