package games

import "testing"

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"329", "329"},
		{"329.0", "329"},
		{" 329.0 ", "329"},
		{"0", "0"},
		{"AB12", "AB12"},
		{"cave-diver", "cave-diver"},
		{"12abc", "12abc"},
	}
	for _, tc := range cases {
		if got := NormalizeID(tc.in); got != tc.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrimaryIDPrefersPinnedSource(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "tic source prefers tic id",
			rec:  Record{FieldSource: "tic80com", FieldTicID: "329", FieldItchID: "999", FieldID: "x"},
			want: "329",
		},
		{
			name: "empty source prefers tic id",
			rec:  Record{FieldTicID: "329", FieldItchID: "999"},
			want: "329",
		},
		{
			name: "itch source prefers itch id",
			rec:  Record{FieldSource: "itch", FieldTicID: "329", FieldItchID: "999"},
			want: "999",
		},
		{
			name: "custom source prefers manual id",
			rec:  Record{FieldSource: "homebrew pack", FieldTicID: "329", FieldID: "hb-1"},
			want: "hb-1",
		},
		{
			name: "source matching is case insensitive",
			rec:  Record{FieldSource: " Itch ", FieldItchID: "999"},
			want: "999",
		},
		{
			name: "blank preferred falls back tic then itch then id",
			rec:  Record{FieldSource: "itch", FieldTicID: "329"},
			want: "329",
		},
		{
			name: "blank preferred falls back to manual id",
			rec:  Record{FieldSource: "tic80com", FieldID: "hb-1"},
			want: "hb-1",
		},
		{
			name: "all blank yields empty",
			rec:  Record{},
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PrimaryID(tc.rec); got != tc.want {
				t.Fatalf("PrimaryID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSecondaryIDReturnsAlternateCatalogID(t *testing.T) {
	rec := Record{FieldSource: "tic80com", FieldTicID: "329", FieldItchID: "999"}
	if got := SecondaryID(rec); got != "999" {
		t.Fatalf("SecondaryID = %q, want %q", got, "999")
	}

	rec = Record{FieldSource: "itch", FieldTicID: "329", FieldItchID: "999"}
	if got := SecondaryID(rec); got != "329" {
		t.Fatalf("SecondaryID = %q, want %q", got, "329")
	}

	if got := SecondaryID(Record{FieldTicID: "329"}); got != "" {
		t.Fatalf("expected no secondary id, got %q", got)
	}
	if got := SecondaryID(Record{FieldTicID: "329", FieldItchID: "329"}); got != "" {
		t.Fatalf("identical ids should yield no secondary, got %q", got)
	}
}
