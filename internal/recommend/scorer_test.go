package recommend

import (
	"fmt"
	"testing"
)

func TestRankScoresTagsAndFollowBonus(t *testing.T) {
	prefs := map[string]float64{"Action": 1.0, "RPG": 1.0}
	candidates := []Candidate{
		{GameID: 1, Name: "Tagged", Tags: []string{"Action"}},
		{GameID: 2, Name: "Tagged and followed", Tags: []string{"Action"}, OwnedByFollowed: true},
		{GameID: 3, Name: "Followed only", OwnedByFollowed: true},
		{GameID: 4, Name: "Double tag", Tags: []string{"Action", "RPG"}},
	}

	ranked := Rank(prefs, nil, candidates)
	if len(ranked) != 4 {
		t.Fatalf("got %d results, want 4", len(ranked))
	}

	scores := map[uint]float64{}
	for _, r := range ranked {
		scores[r.GameID] = r.Score
	}
	if scores[1] != 1.0 {
		t.Errorf("tag-only score = %v, want 1.0", scores[1])
	}
	if scores[2] != 6.0 {
		t.Errorf("tag+follow score = %v, want 6.0", scores[2])
	}
	if scores[3] != FollowBonus {
		t.Errorf("follow-only score = %v, want %v", scores[3], FollowBonus)
	}
	if scores[4] != 2.0 {
		t.Errorf("double-tag score = %v, want 2.0", scores[4])
	}

	if ranked[0].GameID != 2 {
		t.Errorf("highest ranked = game %d, want 2", ranked[0].GameID)
	}
}

func TestRankExcludesOwnedAndDuplicates(t *testing.T) {
	prefs := map[string]float64{"Action": 1.0}
	owned := map[uint]bool{1: true}
	candidates := []Candidate{
		{GameID: 1, Name: "Owned", Tags: []string{"Action"}},
		{GameID: 2, Name: "New", Tags: []string{"Action"}},
		{GameID: 2, Name: "New again", Tags: []string{"Action"}},
	}

	ranked := Rank(prefs, owned, candidates)
	if len(ranked) != 1 || ranked[0].GameID != 2 {
		t.Fatalf("ranked = %+v, want only game 2", ranked)
	}
}

func TestRankDropsZeroSignal(t *testing.T) {
	prefs := map[string]float64{"Action": 1.0}
	candidates := []Candidate{
		{GameID: 1, Name: "No match", Tags: []string{"Puzzle"}},
		{GameID: 2, Name: "Untagged"},
	}

	if ranked := Rank(prefs, nil, candidates); len(ranked) != 0 {
		t.Errorf("ranked = %+v, want empty", ranked)
	}
}

func TestRankReasonStrings(t *testing.T) {
	prefs := map[string]float64{"Action": 1.0, "RPG": 1.0, "Indie": 1.0, "Horror": 1.0}
	candidates := []Candidate{
		{GameID: 1, Tags: []string{"Action", "RPG", "Indie", "Horror"}},
		{GameID: 2, Tags: []string{"Action"}, OwnedByFollowed: true},
		{GameID: 3, OwnedByFollowed: true},
	}

	ranked := Rank(prefs, nil, candidates)
	reasons := map[uint]string{}
	for _, r := range ranked {
		reasons[r.GameID] = r.Reason
	}

	if reasons[1] != "Matches your tags: Action, RPG, Indie" {
		t.Errorf("reason for four matches = %q, want three tags listed", reasons[1])
	}
	if reasons[2] != "Matches your tags: Action; Also played by followed users" {
		t.Errorf("reason for tag+follow = %q", reasons[2])
	}
	if reasons[3] != "Played by followed users" {
		t.Errorf("reason for follow-only = %q", reasons[3])
	}
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	prefs := map[string]float64{"Action": 1.0}

	var candidates []Candidate
	for i := 1; i <= MaxResults+10; i++ {
		candidates = append(candidates, Candidate{
			GameID: uint(i),
			Name:   fmt.Sprintf("Game %d", i),
			Tags:   []string{"Action"},
		})
	}

	ranked := Rank(prefs, nil, candidates)
	if len(ranked) != MaxResults {
		t.Errorf("got %d results, want %d", len(ranked), MaxResults)
	}
}
