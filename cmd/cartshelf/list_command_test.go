package main

import (
	"strings"
	"testing"

	"cartshelf/internal/games"
)

func TestListShowsRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env,
		games.Record{
			games.FieldID:           "10",
			games.FieldNameOriginal: "Alpine Drop",
			games.FieldTicCategory:  "Games",
			games.FieldFileSHA1:     "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		games.Record{
			games.FieldID:           "7",
			games.FieldNameOriginal: "Bat Cave",
			games.FieldTicCategory:  "Games",
		},
	)

	out, _, err := runCLI(t, env, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Alpine Drop")
	requireContains(t, out, "Bat Cave")
	requireContains(t, out, "2 records")
}

func TestListDownloadedFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env,
		games.Record{
			games.FieldID:           "10",
			games.FieldNameOriginal: "Alpine Drop",
			games.FieldFileSHA1:     "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		games.Record{
			games.FieldID:           "7",
			games.FieldNameOriginal: "Bat Cave",
		},
	)

	out, _, err := runCLI(t, env, "list", "--downloaded")
	if err != nil {
		t.Fatalf("list --downloaded: %v", err)
	}
	requireContains(t, out, "Alpine Drop")
	requireContains(t, out, "1 records")
	if strings.Contains(out, "Bat Cave") {
		t.Fatalf("expected Bat Cave to be filtered out, got %q", out)
	}
}

func TestListPrefersOverwriteName(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRecords(t, env, games.Record{
		games.FieldID:            "10",
		games.FieldNameOriginal:  "8 bit panda",
		games.FieldNameOverwrite: "8-Bit Panda",
	})

	out, _, err := runCLI(t, env, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "8-Bit Panda")
}
