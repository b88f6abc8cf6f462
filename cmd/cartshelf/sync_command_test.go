package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cartshelf/internal/games"
)

func TestSyncRenamesToGeneratedFilename(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env, games.Record{
		games.FieldID:           "123",
		games.FieldNameOriginal: "Alpine Drop",
		games.FieldFileSHA1:     "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		games.FieldTicUpdDate:   "2021-05-01",
		games.FieldTicUpdTS:     "1619827200",
	})

	oldPath := filepath.Join(env.cfg.Paths.RomsDir, "old name - 123 ().tic")
	if err := os.WriteFile(oldPath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write rom: %v", err)
	}

	_, _, err := runCLI(t, env, "sync")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	newPath := filepath.Join(env.cfg.Paths.RomsDir, "ALPINE DROP - 123 (2021-05-01).tic")
	fi, err := os.Stat(newPath)
	if err != nil {
		t.Fatalf("expected renamed cartridge at %s: %v", newPath, err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("old path still present: %v", err)
	}
	if want := time.Unix(1619827200, 0); !fi.ModTime().Equal(want) {
		t.Fatalf("mtime = %s, want %s", fi.ModTime(), want)
	}
}

func TestSyncHonorsFilenameCaseFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env, games.Record{
		games.FieldID:           "123",
		games.FieldNameOriginal: "Alpine Drop",
		games.FieldFileSHA1:     "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		games.FieldTicUpdDate:   "2021-05-01",
	})

	oldPath := filepath.Join(env.cfg.Paths.RomsDir, "whatever - 123 ().tic")
	if err := os.WriteFile(oldPath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write rom: %v", err)
	}

	_, _, err := runCLI(t, env, "sync", "--filename-case", "lowercase")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	newPath := filepath.Join(env.cfg.Paths.RomsDir, "alpine drop - 123 (2021-05-01).tic")
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("expected lowercase cartridge at %s: %v", newPath, err)
	}
}

func TestSyncSkipsRecordsWithoutFile(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env, games.Record{
		games.FieldID:           "123",
		games.FieldNameOriginal: "Alpine Drop",
		games.FieldFileSHA1:     "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
	})

	if _, _, err := runCLI(t, env, "sync"); err != nil {
		t.Fatalf("sync: %v", err)
	}
}
