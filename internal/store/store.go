package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/text/cases"

	"cartshelf/internal/games"
	"cartshelf/internal/logging"
)

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("database is locked by another process")

// Store is the CSV-backed cartridge database.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	records map[string]games.Record
	fields  []string // header order of the loaded file; nil for a new file
	lock    *flock.Flock
}

// Open acquires the database lock and loads the CSV at path. A missing file
// yields an empty store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "store")

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire database lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	s := &Store{
		path:    path,
		logger:  logger,
		records: make(map[string]games.Record),
		lock:    lock,
	}
	if err := s.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

// Close releases the database lock. It does not save.
func (s *Store) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Path returns the CSV file location.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Get returns a copy of the record with the given canonical identity.
func (s *Store) Get(id string) (games.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Put inserts or replaces a record under its canonical identity. Records
// without any identifier are rejected.
func (s *Store) Put(rec games.Record) error {
	id := games.PrimaryID(rec)
	if id == "" {
		return errors.New("record has no identifier")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec.Clone()
	return nil
}

// Update applies fn to the record with the given identity under the store
// lock. It reports whether the record existed.
func (s *Store) Update(id string, fn func(games.Record)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return false
	}
	fn(rec)
	return true
}

// Delete removes a record. It reports whether the record existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	return true
}

// Records returns copies of all records in save order.
func (s *Store) Records() []games.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]games.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sortRecords(out)
	return out
}

func (s *Store) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("database file not found, starting empty", logging.String(logging.FieldPath, s.path))
			return nil
		}
		return fmt.Errorf("open database: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read database header: %w", err)
	}
	s.fields = append([]string{}, header...)

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read database row: %w", err)
		}
		line++

		rec := make(games.Record, len(header))
		for i, field := range header {
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		rec[games.FieldID] = games.NormalizeID(rec[games.FieldID])
		rec[games.FieldItchID] = games.NormalizeID(rec[games.FieldItchID])
		rec[games.FieldTicID] = games.NormalizeID(rec[games.FieldTicID])

		id := games.PrimaryID(rec)
		if id == "" {
			s.logger.Warn("row has no identifier, skipping", logging.Int("line", line))
			continue
		}
		if _, exists := s.records[id]; exists {
			s.logger.Warn("duplicate identity, keeping the later row", logging.GameID(id))
		}
		s.records[id] = rec
	}

	s.logger.Info("database loaded", logging.Int(logging.FieldCount, len(s.records)))
	return nil
}

// Save writes the database atomically via a temp file in the same directory.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := s.saveFields()
	records := make([]games.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sortRecords(records)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp database: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	writer := csv.NewWriter(tmp)
	if err := writer.Write(fields); err != nil {
		cleanup()
		return fmt.Errorf("write database header: %w", err)
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, field := range fields {
			row[i] = rec[field]
		}
		if err := writer.Write(row); err != nil {
			cleanup()
			return fmt.Errorf("write database row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		cleanup()
		return fmt.Errorf("flush database: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp database: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace database: %w", err)
	}

	s.logger.Info("database saved", logging.Int(logging.FieldCount, len(records)))
	return nil
}

// saveFields computes the header for a save: known order first (loaded header
// or the default layout for a new file), then any new columns alphabetically.
func (s *Store) saveFields() []string {
	present := make(map[string]struct{})
	for _, rec := range s.records {
		for field := range rec {
			present[field] = struct{}{}
		}
	}

	known := s.fields
	if known == nil {
		known = games.DefaultFields()
	}

	out := make([]string, 0, len(present))
	for _, field := range known {
		if _, ok := present[field]; ok {
			out = append(out, field)
			delete(present, field)
		}
	}
	extra := make([]string, 0, len(present))
	for field := range present {
		extra = append(extra, field)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

var foldCaser = cases.Fold()

// sortRecords orders rows by case-folded display name, then by canonical
// identity zero-padded to ten characters so numeric ids sort naturally among
// games sharing a name.
func sortRecords(records []games.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i]) < sortKey(records[j])
	})
}

func sortKey(rec games.Record) string {
	name := rec[games.FieldSortName]
	if name == "" {
		name = rec[games.FieldNameOverwrite]
	}
	if name == "" {
		name = rec[games.FieldNameOriginal]
	}
	if name == "" {
		name = rec[games.FieldItchTitle]
	}
	name = foldCaser.String(strings.TrimSpace(name))

	id := games.PrimaryID(rec)
	if len(id) < 10 {
		id = strings.Repeat("0", 10-len(id)) + id
	}
	return name + " " + id
}
