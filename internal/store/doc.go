// Package store persists the cartridge database as a single CSV file.
//
// The store is a keyed in-memory map loaded once per command and written back
// once at the end (or on an interrupt checkpoint). A file lock next to the
// CSV keeps concurrent batch runs from clobbering each other, and saves go
// through a temp file plus rename so a crash never leaves a half-written
// database.
//
// Column handling is conservative: the header order of the loaded file is
// preserved, columns this program never heard of round-trip untouched, and
// new columns are appended in alphabetical order.
package store
