// Package social computes the shared-library comparison between two users.
package social

import (
	"math"
	"sort"
	"strings"
)

// CommonGame is one title owned by both sides of a comparison.
type CommonGame struct {
	GameID        uint
	AppID         string
	Name          string
	LogoURL       string
	MyPlaytime    int
	TheirPlaytime int
	TotalPlaytime int
	Relevance     float64
}

// Relevance scores a shared game: the geometric mean of both playtimes,
// log-scaled by the combined total. Zero when either side has no playtime,
// so one-sided ownership is never rewarded.
func Relevance(myPlaytime, theirPlaytime int) float64 {
	if myPlaytime <= 0 || theirPlaytime <= 0 {
		return 0
	}
	geometricMean := math.Sqrt(float64(myPlaytime) * float64(theirPlaytime))
	return geometricMean * math.Log(float64(myPlaytime+theirPlaytime)+1)
}

// Sort keys accepted for the common-games comparison.
var commonGameSorts = map[string]bool{
	"name":           true,
	"playtime":       true,
	"my_playtime":    true,
	"their_playtime": true,
	"relevance":      true,
}

// NormalizeSort validates sort parameters against the whitelist. Values
// outside it silently fall back (sort to name, order to asc) rather than
// erroring; nothing user-supplied ever reaches a query.
func NormalizeSort(sortBy, order string) (string, string) {
	if !commonGameSorts[sortBy] {
		sortBy = "name"
	}
	if order != "asc" && order != "desc" {
		order = "asc"
	}
	return sortBy, order
}

// SortCommonGames orders games in place by a whitelisted key.
func SortCommonGames(games []CommonGame, sortBy, order string) {
	sortBy, order = NormalizeSort(sortBy, order)
	desc := order == "desc"

	less := func(i, j int) bool {
		var cmp bool
		switch sortBy {
		case "playtime":
			cmp = games[i].TotalPlaytime < games[j].TotalPlaytime
		case "my_playtime":
			cmp = games[i].MyPlaytime < games[j].MyPlaytime
		case "their_playtime":
			cmp = games[i].TheirPlaytime < games[j].TheirPlaytime
		case "relevance":
			cmp = games[i].Relevance < games[j].Relevance
		default:
			cmp = strings.ToLower(games[i].Name) < strings.ToLower(games[j].Name)
		}
		if desc {
			return !cmp && !equalByKey(games[i], games[j], sortBy)
		}
		return cmp
	}

	sort.SliceStable(games, less)
}

func equalByKey(a, b CommonGame, sortBy string) bool {
	switch sortBy {
	case "playtime":
		return a.TotalPlaytime == b.TotalPlaytime
	case "my_playtime":
		return a.MyPlaytime == b.MyPlaytime
	case "their_playtime":
		return a.TheirPlaytime == b.TheirPlaytime
	case "relevance":
		return a.Relevance == b.Relevance
	default:
		return strings.EqualFold(a.Name, b.Name)
	}
}
