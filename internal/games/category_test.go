package games

import "testing"

func TestCategoryResolution(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{"manual override wins", Record{FieldRomCategory: "Music", FieldSource: "itch"}, "Music"},
		{"itch source", Record{FieldSource: "itch"}, "Itch"},
		{"tic source uses catalog category", Record{FieldSource: "tic80com", FieldTicCategory: "Tools"}, "Tools"},
		{"tic source default", Record{FieldSource: "tic80com"}, "Games"},
		{"empty source behaves like tic", Record{FieldTicCategory: "WIP"}, "WIP"},
		{"custom source", Record{FieldSource: "homebrew pack"}, "Unclassified"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Category(tc.rec); got != tc.want {
				t.Fatalf("Category = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOptInFiltersRequireExplicitTForUnusualCategories(t *testing.T) {
	wip := Record{FieldSource: "tic80com", FieldTicCategory: "WIP"}
	if InCollection(wip) {
		t.Fatal("blank opt-in should exclude unusual categories")
	}
	wip[FieldInclude] = "T"
	if !InCollection(wip) {
		t.Fatal("explicit T should include unusual categories")
	}

	game := Record{FieldSource: "tic80com"}
	if !InCollection(game) {
		t.Fatal("blank opt-in should include normal categories")
	}
	game[FieldInclude] = "F"
	if InCollection(game) {
		t.Fatal("explicit F should exclude")
	}
}

func TestDistributionSafeDefaultsTrue(t *testing.T) {
	if !DistributionSafe(Record{}) {
		t.Fatal("blank license should be distribution safe")
	}
	if DistributionSafe(Record{FieldDistribution: "F"}) {
		t.Fatal("explicit F should not be distribution safe")
	}
}
