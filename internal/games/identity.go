package games

import (
	"math"
	"strconv"
	"strings"
)

// Source values recognized in the source_with_bestversion column. Any other
// non-empty value means a manually pinned source identified by the free-form
// id column.
const (
	SourceTic80 = "tic80com"
	SourceItch  = "itch"
	SourceIPFS  = "ipfs"
)

// NormalizeID collapses float-formatted ids from spreadsheet round-trips
// ("329.0") to their integer form ("329"). Non-numeric ids and empty strings
// pass through unchanged.
func NormalizeID(id string) string {
	if id == "" {
		return id
	}
	id = strings.TrimSpace(id)
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}

// PrimaryID resolves the canonical identity for a record. The pinned source
// selects the preferred id column (tic80com or empty source prefers tic_id,
// itch prefers itch_id, anything else prefers the manual id). A blank
// preferred id falls back through tic_id, itch_id, then id so a row is never
// orphaned while any identifier exists. Returns "" only when all three are
// blank.
func PrimaryID(r Record) string {
	source := strings.ToLower(strings.TrimSpace(r[FieldSource]))

	ticID := r[FieldTicID]
	itchID := r[FieldItchID]
	manualID := r[FieldID]

	var preferred string
	switch source {
	case SourceTic80, "":
		preferred = ticID
	case SourceItch:
		preferred = itchID
	default:
		preferred = manualID
	}

	if preferred != "" {
		return preferred
	}
	if ticID != "" {
		return ticID
	}
	if itchID != "" {
		return itchID
	}
	return manualID
}

// SecondaryID returns the other catalog's id when the record exists in both
// catalogs. It is used to locate media saved under the alternate identity.
// Returns "" when no distinct alternate id exists.
func SecondaryID(r Record) string {
	primary := PrimaryID(r)
	ticID := r[FieldTicID]
	itchID := r[FieldItchID]

	if primary == ticID && itchID != "" && ticID != itchID {
		return itchID
	}
	if primary == itchID && ticID != "" && ticID != itchID {
		return ticID
	}
	return ""
}
