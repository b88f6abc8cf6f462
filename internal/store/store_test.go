package store

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cartshelf/internal/games"
	"cartshelf/internal/logging"
)

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "games_info.csv"))
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", s.Len())
	}
}

func TestLoadNormalizesIDsAndKeysByIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	writeCSV(t, path, [][]string{
		{"id", "tic_id", "itch_id", "source_with_bestversion", "name_original_reference"},
		{"", "329.0", "", "tic80com", "Cave Diver"},
	})

	s := openStore(t, path)
	rec, ok := s.Get("329")
	if !ok {
		t.Fatal("expected record keyed under normalized id 329")
	}
	if rec[games.FieldTicID] != "329" {
		t.Fatalf("tic_id = %q, want normalized", rec[games.FieldTicID])
	}
}

func TestLoadDuplicateIdentityLastWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	writeCSV(t, path, [][]string{
		{"id", "tic_id", "itch_id", "source_with_bestversion", "name_original_reference"},
		{"", "329", "", "", "First"},
		{"", "329", "", "", "Second"},
	})

	s := openStore(t, path)
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
	rec, _ := s.Get("329")
	if rec[games.FieldNameOriginal] != "Second" {
		t.Fatalf("expected later row to win, got %q", rec[games.FieldNameOriginal])
	}
}

func TestLoadDropsRowsWithoutIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	writeCSV(t, path, [][]string{
		{"id", "tic_id", "itch_id", "source_with_bestversion", "name_original_reference"},
		{"", "", "", "", "Ghost"},
		{"", "1", "", "", "Real"},
	})

	s := openStore(t, path)
	if s.Len() != 1 {
		t.Fatalf("expected identity-less row to be dropped, got %d records", s.Len())
	}
}

func TestSavePreservesHeaderOrderAndAppendsNewColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	writeCSV(t, path, [][]string{
		{"custom_notes", "tic_id", "id", "itch_id", "source_with_bestversion"},
		{"keep me", "329", "", "", "tic80com"},
	})

	s := openStore(t, path)
	ok := s.Update("329", func(rec games.Record) {
		rec["zz_new"] = "v"
		rec["aa_new"] = "w"
	})
	if !ok {
		t.Fatal("expected record 329")
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	want := "custom_notes,tic_id,id,itch_id,source_with_bestversion,aa_new,zz_new"
	if header != want {
		t.Fatalf("header = %q, want %q", header, want)
	}
	if !strings.Contains(string(data), "keep me") {
		t.Fatal("unknown column value should round-trip")
	}
}

func TestSaveNewFileUsesDefaultLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	s := openStore(t, path)
	if err := s.Put(games.Record{
		games.FieldTicID:        "1",
		games.FieldSource:       "tic80com",
		games.FieldNameOriginal: "Alpha",
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	fields := strings.Split(header, ",")
	if len(fields) != 3 {
		t.Fatalf("expected only present columns in header, got %v", fields)
	}
	if fields[0] != games.FieldNameOriginal {
		t.Fatalf("expected default layout to lead with %s, got %v", games.FieldNameOriginal, fields)
	}
}

func TestSaveSortsByDisplayNameThenPaddedIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	s := openStore(t, path)
	put := func(ticID, name string) {
		if err := s.Put(games.Record{
			games.FieldTicID:        ticID,
			games.FieldSource:       "tic80com",
			games.FieldNameOriginal: name,
		}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	put("20", "Zelda-like")
	put("100", "cave diver")
	put("9", "Cave Diver")

	records := s.Records()
	if games.PrimaryID(records[0]) != "9" || games.PrimaryID(records[1]) != "100" {
		t.Fatalf("expected case-folded name then padded id ordering, got %s, %s, %s",
			games.PrimaryID(records[0]), games.PrimaryID(records[1]), games.PrimaryID(records[2]))
	}
	if records[2][games.FieldNameOriginal] != "Zelda-like" {
		t.Fatalf("expected Zelda-like last, got %q", records[2][games.FieldNameOriginal])
	}
}

func TestSortPrefersSortNameOverDisplayNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	s := openStore(t, path)
	if err := s.Put(games.Record{
		games.FieldTicID:        "1",
		games.FieldNameOriginal: "Zzz",
		games.FieldSortName:     "AAA",
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(games.Record{
		games.FieldTicID:        "2",
		games.FieldNameOriginal: "Bbb",
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	records := s.Records()
	if games.PrimaryID(records[0]) != "1" {
		t.Fatalf("sortname should take precedence, got %s first", games.PrimaryID(records[0]))
	}
}

func TestPutRejectsIdentityLessRecords(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "games_info.csv"))
	if err := s.Put(games.Record{games.FieldNameOriginal: "Ghost"}); err == nil {
		t.Fatal("expected error for record without identifiers")
	}
}

func TestOpenFailsWhenLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	first := openStore(t, path)
	_ = first

	if _, err := Open(path, logging.NewNop()); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games_info.csv")
	s := openStore(t, path)
	if err := s.Put(games.Record{
		games.FieldTicID:        "7",
		games.FieldSource:       "tic80com",
		games.FieldNameOriginal: "With, comma and \"quotes\"",
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	reopened := openStore(t, path)
	rec, ok := reopened.Get("7")
	if !ok {
		t.Fatal("expected record after reload")
	}
	if rec[games.FieldNameOriginal] != "With, comma and \"quotes\"" {
		t.Fatalf("round-trip mangled value: %q", rec[games.FieldNameOriginal])
	}
}
