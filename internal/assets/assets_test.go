package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cartshelf/internal/games"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFindGameFileSingleFolder(t *testing.T) {
	roms := t.TempDir()
	touch(t, filepath.Join(roms, "CAVE DIVER - 329 (2021-06-01).tic"))
	touch(t, filepath.Join(roms, "OTHER - 400 (2020-01-01).tic"))

	got := FindGameFile(roms, "329", naming.OrganizationSingle)
	if filepath.Base(got) != "CAVE DIVER - 329 (2021-06-01).tic" {
		t.Fatalf("FindGameFile = %q", got)
	}
	if FindGameFile(roms, "999", naming.OrganizationSingle) != "" {
		t.Fatal("expected no match for unknown id")
	}
	if FindGameFile(roms, "", naming.OrganizationSingle) != "" {
		t.Fatal("empty id must not match")
	}
}

func TestFindGameFileDoesNotMatchIDSubstrings(t *testing.T) {
	roms := t.TempDir()
	touch(t, filepath.Join(roms, "GAME - 1329 (2021-06-01).tic"))
	if FindGameFile(roms, "329", naming.OrganizationSingle) != "" {
		t.Fatal("id 329 must not match 1329")
	}
}

func TestFindGameFileMultipleFolders(t *testing.T) {
	roms := t.TempDir()
	touch(t, filepath.Join(roms, "Games", "CAVE DIVER - 329 (2021-06-01).tic"))

	if FindGameFile(roms, "329", naming.OrganizationMultiple) == "" {
		t.Fatal("expected match inside category subdirectory")
	}
	if FindGameFile(roms, "329", naming.OrganizationSingle) != "" {
		t.Fatal("single-folder search must not descend into subdirectories")
	}
}

func TestFindMediaFileMatchesDatedAndUndatedNames(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"CAVE DIVER - 329.png",
		"CAVE DIVER - 329 (2021-06-01).png",
		"CAVE DIVER - 329 ().png",
	}
	for _, name := range names {
		media := filepath.Join(t.TempDir())
		touch(t, filepath.Join(media, name))
		if FindMediaFile(media, "329") == "" {
			t.Errorf("expected %q to match", name)
		}
	}

	touch(t, filepath.Join(dir, "CAVE DIVER - 1329.png"))
	if FindMediaFile(dir, "329") != "" {
		t.Fatal("id 329 must not match 1329")
	}
}

func TestHashBytesFormats(t *testing.T) {
	h := HashBytes([]byte("hello"))
	if h.MD5 != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("MD5 = %q", h.MD5)
	}
	if h.SHA1 != "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d" {
		t.Fatalf("SHA1 = %q", h.SHA1)
	}
	if h.CRC != "3610A686" {
		t.Fatalf("CRC = %q", h.CRC)
	}
}

func TestSetModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.tic")
	touch(t, path)
	want := time.Unix(1600000000, 0)
	if err := SetModTime(path, want); err != nil {
		t.Fatalf("SetModTime: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(want) {
		t.Fatalf("mtime = %v, want %v", info.ModTime(), want)
	}
}

func TestSyncMediaMovesByPrimaryAndCopiesBySecondary(t *testing.T) {
	mediaDir := t.TempDir()
	touch(t, filepath.Join(mediaDir, "screenshots", "OLD NAME - 329.png"))
	touch(t, filepath.Join(mediaDir, "titlescreens", "ITCH NAME - 999.png"))

	rec := games.Record{
		games.FieldSource: "tic80com",
		games.FieldTicID:  "329",
		games.FieldItchID: "999",
	}
	SyncMedia(mediaDir, rec, "NEW NAME - 329.png", logging.NewNop())

	if _, err := os.Stat(filepath.Join(mediaDir, "screenshots", "NEW NAME - 329.png")); err != nil {
		t.Fatal("expected screenshot renamed to new name")
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "screenshots", "OLD NAME - 329.png")); err == nil {
		t.Fatal("old screenshot should have been moved, not copied")
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "titlescreens", "NEW NAME - 329.png")); err != nil {
		t.Fatal("expected titlescreen copied from secondary id")
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "titlescreens", "ITCH NAME - 999.png")); err != nil {
		t.Fatal("secondary-id media must be copied, not moved")
	}
}

func TestCopyFallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")
	touch(t, src)

	copied, err := CopyFallback(src, dst)
	if err != nil || !copied {
		t.Fatalf("CopyFallback = %v, %v", copied, err)
	}
	copied, err = CopyFallback(src, dst)
	if err != nil || copied {
		t.Fatalf("second CopyFallback should be a no-op, got %v, %v", copied, err)
	}
	copied, err = CopyFallback(filepath.Join(dir, "missing.png"), filepath.Join(dir, "other.png"))
	if err != nil || copied {
		t.Fatalf("missing source should be a no-op, got %v, %v", copied, err)
	}
}
