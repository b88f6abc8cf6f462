package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cartshelf/internal/config"
	"cartshelf/internal/games"
	"cartshelf/internal/logging"
	"cartshelf/internal/store"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CARTSHELF_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	configPath := filepath.Join(homeDir, ".config", "cartshelf", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
roms_dir = %q
database_csv = %q
media_dir = %q
gamelist_path = %q
backup_roms_dir = %q
log_dir = %q
describe_out_dir = %q
`,
		filepath.Join(base, "roms"),
		filepath.Join(base, "db", "games.csv"),
		filepath.Join(base, "media"),
		filepath.Join(base, "gamelist.xml"),
		filepath.Join(base, "backup"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "descriptions"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seedRecords(t *testing.T, env *cliTestEnv, records ...games.Record) {
	t.Helper()
	db, err := store.Open(env.cfg.Paths.DatabaseCSV, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for _, rec := range records {
		if err := db.Put(rec); err != nil {
			t.Fatalf("put record: %v", err)
		}
	}
	if err := db.Save(); err != nil {
		t.Fatalf("save store: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func readRecord(t *testing.T, env *cliTestEnv, id string) games.Record {
	t.Helper()
	db, err := store.Open(env.cfg.Paths.DatabaseCSV, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	rec, ok := db.Get(id)
	if !ok {
		t.Fatalf("record %s not found", id)
	}
	return rec
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
