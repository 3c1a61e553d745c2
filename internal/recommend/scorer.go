// Package recommend ranks not-yet-owned games from stored tags, declared
// preferences and the follow graph.
package recommend

import (
	"sort"
	"strings"
)

const (
	// FollowBonus is the flat score added when any followed user owns the game.
	FollowBonus = 5.0

	// MaxResults caps the ranked list.
	MaxResults = 50

	// maxReasonTags caps how many matching tags the reason string names.
	maxReasonTags = 3
)

// Candidate is a game the user might be recommended, with the signals
// gathered for it.
type Candidate struct {
	GameID          uint
	AppID           string
	Name            string
	LogoURL         string
	Tags            []string
	OwnedByFollowed bool
}

// Recommendation is one ranked result.
type Recommendation struct {
	GameID  uint
	AppID   string
	Name    string
	LogoURL string
	Score   float64
	Reason  string
}

// Rank scores candidates against the user's preference weights and follow
// signal, excluding games the user already owns. Score is the sum of
// preference weights over matching tags, plus FollowBonus when a followed
// user owns the game. Candidates with no signal at all are dropped. The
// result is sorted by score descending and truncated to MaxResults.
func Rank(prefs map[string]float64, owned map[uint]bool, candidates []Candidate) []Recommendation {
	seen := make(map[uint]bool)
	var ranked []Recommendation

	for _, c := range candidates {
		if owned[c.GameID] || seen[c.GameID] {
			continue
		}
		seen[c.GameID] = true

		score := 0.0
		var matching []string
		for _, tag := range c.Tags {
			if weight, ok := prefs[tag]; ok {
				score += weight
				matching = append(matching, tag)
			}
		}

		reason := ""
		if len(matching) > 0 {
			shown := matching
			if len(shown) > maxReasonTags {
				shown = shown[:maxReasonTags]
			}
			reason = "Matches your tags: " + strings.Join(shown, ", ")
		}

		if c.OwnedByFollowed {
			score += FollowBonus
			if reason == "" {
				reason = "Played by followed users"
			} else {
				reason += "; Also played by followed users"
			}
		}

		if score == 0 {
			continue
		}

		ranked = append(ranked, Recommendation{
			GameID:  c.GameID,
			AppID:   c.AppID,
			Name:    c.Name,
			LogoURL: c.LogoURL,
			Score:   score,
			Reason:  reason,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}
