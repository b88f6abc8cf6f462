package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesConfigAndLayout(t *testing.T) {
	env := setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, env, "init", "--path", target)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	env := setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	_, _, err := runCLI(t, env, "init", "--path", target)
	if err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	requireContains(t, err.Error(), "already exists")
}

func TestConfigShowPrintsResolvedValues(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "paths.roms_dir")
	requireContains(t, out, env.cfg.Paths.RomsDir)
	requireContains(t, out, "naming.folder_organization")
	requireContains(t, out, "(unset)")
}

func TestConfigShowMasksAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("CARTSHELF_LLM_API_KEY", "sk-verysecretvalue1234")

	out, _, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "sk-v...1234")
	if strings.Contains(out, "sk-verysecretvalue1234") {
		t.Fatal("expected API key to be masked")
	}
}

func TestConfigPathPrintsLocation(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, filepath.Join(".config", "cartshelf", "config.toml"))
}

func TestMaskSecret(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "(unset)"},
		{"short", "********"},
		{"sk-verysecretvalue1234", "sk-v...1234"},
	}
	for _, tc := range cases {
		if got := maskSecret(tc.in); got != tc.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
