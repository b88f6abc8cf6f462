package games

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date form used inside generated filenames.
const DateLayout = "2006-01-02"

// parseTimestamp reads a Unix-seconds value from a CSV cell. Zero, blank, and
// unparseable cells all mean "absent".
func parseTimestamp(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f == 0 {
		return 0, false
	}
	return f, true
}

func timestampDate(seconds float64) string {
	return timeFromSeconds(seconds).UTC().Format(DateLayout)
}

func timeFromSeconds(seconds float64) time.Time {
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// EffectiveDate resolves the single YYYY-MM-DD date used in a record's
// filename. Precedence:
//
//  1. A manual overwrite timestamp always wins.
//  2. Records pinned to tic80.com (or with no pinned source) use the tic
//     update date, then the tic publish date.
//  3. Otherwise the itch timestamps decide. When both an update and a
//     last-modified timestamp exist the EARLIER wins, because itch bumps
//     last-modified on page edits that do not change the cartridge.
//  4. With no itch timestamps at all, fall back to the tic dates.
//
// Returns "" when nothing resolves; the filename then carries empty
// parentheses.
func EffectiveDate(r Record) string {
	if ts, ok := parseTimestamp(r[FieldOverwriteUpdTS]); ok {
		return timestampDate(ts)
	}

	source := strings.ToLower(strings.TrimSpace(r[FieldSource]))
	if source == SourceTic80 || source == "" {
		if date := ticDateFallback(r); date != "" {
			return date
		}
	}

	if ts, ok := selectItchTimestamp(r); ok {
		return timestampDate(ts)
	}
	return ticDateFallback(r)
}

// SelectModTime resolves the instant a downloaded file's mtime is set to.
// Same precedence as EffectiveDate but built from the raw timestamp columns,
// so the full time of day is preserved.
func SelectModTime(r Record) (time.Time, bool) {
	if ts, ok := parseTimestamp(r[FieldOverwriteUpdTS]); ok {
		return timeFromSeconds(ts), true
	}

	source := strings.ToLower(strings.TrimSpace(r[FieldSource]))
	if source == SourceTic80 || source == "" {
		if ts, ok := parseTimestamp(r[FieldTicUpdTS]); ok {
			return timeFromSeconds(ts), true
		}
		if ts, ok := parseTimestamp(r[FieldTicPubTS]); ok {
			return timeFromSeconds(ts), true
		}
	}

	if ts, ok := selectItchTimestamp(r); ok {
		return timeFromSeconds(ts), true
	}
	return time.Time{}, false
}

func selectItchTimestamp(r Record) (float64, bool) {
	upd, updOK := parseTimestamp(r[FieldItchUpdTS])
	lastmod, lastmodOK := parseTimestamp(r[FieldItchLastmodTS])

	switch {
	case updOK && lastmodOK:
		return math.Min(upd, lastmod), true
	case updOK:
		return upd, true
	case lastmodOK:
		return lastmod, true
	}
	return parseTimestamp(r[FieldItchPubTS])
}

func ticDateFallback(r Record) string {
	if date := r[FieldTicUpdDate]; date != "" {
		return date
	}
	return r[FieldTicPubDate]
}
