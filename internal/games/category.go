package games

import "strings"

// CategoryItch is assigned to records pinned to itch.io without a manual
// category; CategoryUnclassified to records pinned to any other non-catalog
// source.
const (
	CategoryGames        = "Games"
	CategoryItch         = "Itch"
	CategoryUnclassified = "Unclassified"
)

// unusualCategories need an explicit opt-in before their records join
// download or export selections.
var unusualCategories = map[string]struct{}{
	"WIP":        {},
	"Demoscene":  {},
	"Livecoding": {},
	"Music":      {},
	"Tools":      {},
	"Tech":       {},
}

// Category resolves a record's display category. A manual rom_category wins;
// otherwise the pinned source decides: itch records are grouped under "Itch",
// tic80.com records use their catalog category (default "Games"), and other
// sources land in "Unclassified".
func Category(r Record) string {
	if manual := r[FieldRomCategory]; manual != "" {
		return manual
	}
	source := strings.TrimSpace(r[FieldSource])
	switch source {
	case SourceItch:
		return CategoryItch
	case SourceTic80, "":
		if cat := r[FieldTicCategory]; cat != "" {
			return cat
		}
		return CategoryGames
	default:
		return CategoryUnclassified
	}
}

// IsUnusualCategory reports whether the category requires explicit opt-in.
func IsUnusualCategory(category string) bool {
	_, ok := unusualCategories[category]
	return ok
}

// optIn evaluates a tri-state T/F/blank column. Records in unusual
// categories need an explicit "T"; everything else is in unless marked "F".
func optIn(r Record, field string) bool {
	category := Category(r)
	if IsUnusualCategory(category) {
		return r[field] == "T"
	}
	return r[field] != "F"
}

// InCollection reports whether the record belongs to the broad collection.
func InCollection(r Record) bool {
	return optIn(r, FieldInclude)
}

// InCuratedCollection reports whether the record belongs to the curated
// subset.
func InCuratedCollection(r Record) bool {
	return optIn(r, FieldIncludeCurated)
}

// DistributionSafe reports whether the record's license permits
// redistribution. Blank means safe; only an explicit "F" excludes.
func DistributionSafe(r Record) bool {
	return r[FieldDistribution] != "F"
}
