// Package assets locates, verifies, and maintains the on-disk files backing
// the database: cartridge ROMs and the media images under the media
// directory's per-type subfolders.
//
// Files are matched by the " - id" convention embedded in every generated
// filename, never by full name, so metadata edits that change the display
// name still find the old file for renaming.
package assets
