// Package gamelist renders the EmulationStation-style gamelist.xml consumed
// by frontend scrapers.
//
// Only downloaded records (those carrying a file hash) are listed. Entries
// are emitted in a stable name order, and free-text fields go through a
// normalizing XML escape so values that arrive pre-escaped from the catalogs
// are not double-escaped.
package gamelist
