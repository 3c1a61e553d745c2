package social

import (
	"math"
	"testing"
)

func TestRelevanceZeroSides(t *testing.T) {
	if got := Relevance(0, 100); got != 0 {
		t.Errorf("Relevance(0, 100) = %v, want 0", got)
	}
	if got := Relevance(100, 0); got != 0 {
		t.Errorf("Relevance(100, 0) = %v, want 0", got)
	}
	if got := Relevance(0, 0); got != 0 {
		t.Errorf("Relevance(0, 0) = %v, want 0", got)
	}
}

func TestRelevanceFormula(t *testing.T) {
	// Equal playtimes: geometric mean is the playtime itself.
	want := 100 * math.Log(201)
	if got := Relevance(100, 100); math.Abs(got-want) > 1e-9 {
		t.Errorf("Relevance(100, 100) = %v, want %v", got, want)
	}

	want = math.Sqrt(50*200) * math.Log(251)
	if got := Relevance(50, 200); math.Abs(got-want) > 1e-9 {
		t.Errorf("Relevance(50, 200) = %v, want %v", got, want)
	}
}

func TestRelevanceRewardsMutualPlay(t *testing.T) {
	// Same total, but mutual play beats one-sided play.
	balanced := Relevance(100, 100)
	lopsided := Relevance(190, 10)
	if balanced <= lopsided {
		t.Errorf("balanced %v should outrank lopsided %v", balanced, lopsided)
	}
}

func TestNormalizeSort(t *testing.T) {
	cases := []struct {
		sortBy, order       string
		wantSort, wantOrder string
	}{
		{"relevance", "desc", "relevance", "desc"},
		{"my_playtime", "asc", "my_playtime", "asc"},
		{"bogus", "desc", "name", "desc"},
		{"name", "sideways", "name", "asc"},
		{"playtime; DROP TABLE games", "desc", "name", "desc"},
		{"", "", "name", "asc"},
	}

	for _, tc := range cases {
		gotSort, gotOrder := NormalizeSort(tc.sortBy, tc.order)
		if gotSort != tc.wantSort || gotOrder != tc.wantOrder {
			t.Errorf("NormalizeSort(%q, %q) = (%q, %q), want (%q, %q)",
				tc.sortBy, tc.order, gotSort, gotOrder, tc.wantSort, tc.wantOrder)
		}
	}
}

func TestSortCommonGames(t *testing.T) {
	games := func() []CommonGame {
		return []CommonGame{
			{Name: "Banished", MyPlaytime: 50, TheirPlaytime: 10, TotalPlaytime: 60, Relevance: Relevance(50, 10)},
			{Name: "aurora", MyPlaytime: 10, TheirPlaytime: 100, TotalPlaytime: 110, Relevance: Relevance(10, 100)},
			{Name: "Celeste", MyPlaytime: 200, TheirPlaytime: 200, TotalPlaytime: 400, Relevance: Relevance(200, 200)},
		}
	}

	byName := games()
	SortCommonGames(byName, "name", "asc")
	if byName[0].Name != "aurora" || byName[1].Name != "Banished" || byName[2].Name != "Celeste" {
		t.Errorf("name asc order = %v, %v, %v", byName[0].Name, byName[1].Name, byName[2].Name)
	}

	byRelevance := games()
	SortCommonGames(byRelevance, "relevance", "desc")
	if byRelevance[0].Name != "Celeste" {
		t.Errorf("relevance desc first = %v, want Celeste", byRelevance[0].Name)
	}
	if byRelevance[0].Relevance < byRelevance[1].Relevance || byRelevance[1].Relevance < byRelevance[2].Relevance {
		t.Error("relevance desc is not monotonically decreasing")
	}

	byMine := games()
	SortCommonGames(byMine, "my_playtime", "desc")
	if byMine[0].MyPlaytime != 200 || byMine[2].MyPlaytime != 10 {
		t.Errorf("my_playtime desc = %d, %d, %d", byMine[0].MyPlaytime, byMine[1].MyPlaytime, byMine[2].MyPlaytime)
	}

	invalid := games()
	SortCommonGames(invalid, "bogus", "upside-down")
	if invalid[0].Name != "aurora" {
		t.Errorf("invalid sort should fall back to name asc, got %v first", invalid[0].Name)
	}
}
