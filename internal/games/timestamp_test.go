package games

import (
	"testing"
	"time"
)

func TestEffectiveDateOverwriteWins(t *testing.T) {
	rec := Record{
		FieldOverwriteUpdTS: "1700000000", // 2023-11-14 UTC
		FieldSource:         "tic80com",
		FieldTicUpdDate:     "2020-01-01",
	}
	if got := EffectiveDate(rec); got != "2023-11-14" {
		t.Fatalf("EffectiveDate = %q, want 2023-11-14", got)
	}
}

func TestEffectiveDateZeroOverwriteIsAbsent(t *testing.T) {
	rec := Record{
		FieldOverwriteUpdTS: "0.0",
		FieldTicUpdDate:     "2020-01-01",
	}
	if got := EffectiveDate(rec); got != "2020-01-01" {
		t.Fatalf("EffectiveDate = %q, want 2020-01-01", got)
	}
}

func TestEffectiveDateTicSourcePrefersUpdateDate(t *testing.T) {
	rec := Record{
		FieldSource:     "tic80com",
		FieldTicPubDate: "2019-05-05",
		FieldTicUpdDate: "2020-01-01",
	}
	if got := EffectiveDate(rec); got != "2020-01-01" {
		t.Fatalf("EffectiveDate = %q, want 2020-01-01", got)
	}

	delete(rec, FieldTicUpdDate)
	if got := EffectiveDate(rec); got != "2019-05-05" {
		t.Fatalf("EffectiveDate = %q, want 2019-05-05", got)
	}
}

func TestEffectiveDateItchEarliestWins(t *testing.T) {
	rec := Record{
		FieldSource:        "itch",
		FieldItchUpdTS:     "1700000000", // 2023-11-14
		FieldItchLastmodTS: "1600000000", // 2020-09-13
	}
	if got := EffectiveDate(rec); got != "2020-09-13" {
		t.Fatalf("EffectiveDate = %q, want 2020-09-13", got)
	}
}

func TestEffectiveDateItchFallsBackToPublish(t *testing.T) {
	rec := Record{
		FieldSource:    "itch",
		FieldItchPubTS: "1600000000",
	}
	if got := EffectiveDate(rec); got != "2020-09-13" {
		t.Fatalf("EffectiveDate = %q, want 2020-09-13", got)
	}
}

func TestEffectiveDateItchSourceUsesTicDatesLast(t *testing.T) {
	rec := Record{
		FieldSource:     "itch",
		FieldTicPubDate: "2018-02-02",
	}
	if got := EffectiveDate(rec); got != "2018-02-02" {
		t.Fatalf("EffectiveDate = %q, want 2018-02-02", got)
	}
}

func TestEffectiveDateUnparseableTimestampsIgnored(t *testing.T) {
	rec := Record{
		FieldOverwriteUpdTS: "not-a-number",
		FieldSource:         "itch",
		FieldItchUpdTS:      "also bad",
	}
	if got := EffectiveDate(rec); got != "" {
		t.Fatalf("EffectiveDate = %q, want empty", got)
	}
}

func TestSelectModTimeUsesRawTimestamps(t *testing.T) {
	rec := Record{
		FieldSource:   "tic80com",
		FieldTicUpdTS: "1700000000",
		FieldTicPubTS: "1600000000",
	}
	got, ok := SelectModTime(rec)
	if !ok {
		t.Fatal("expected a mod time")
	}
	if !got.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("SelectModTime = %v, want %v", got, time.Unix(1700000000, 0))
	}

	delete(rec, FieldTicUpdTS)
	got, ok = SelectModTime(rec)
	if !ok || !got.Equal(time.Unix(1600000000, 0)) {
		t.Fatalf("SelectModTime = %v ok=%v, want publish timestamp", got, ok)
	}
}

func TestSelectModTimeAbsentWhenNothingParses(t *testing.T) {
	if _, ok := SelectModTime(Record{FieldSource: "tic80com", FieldTicUpdTS: "0"}); ok {
		t.Fatal("zero timestamp should be treated as absent")
	}
}

func TestSelectModTimeItchEarliest(t *testing.T) {
	rec := Record{
		FieldSource:        "itch",
		FieldItchUpdTS:     "1600000000",
		FieldItchLastmodTS: "1700000000",
	}
	got, ok := SelectModTime(rec)
	if !ok || !got.Equal(time.Unix(1600000000, 0)) {
		t.Fatalf("SelectModTime = %v ok=%v, want earlier itch timestamp", got, ok)
	}
}
