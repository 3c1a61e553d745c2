// Package tags is the single source of truth for the canonical tag
// vocabulary and the alias table that maps raw store genre/category
// strings onto it. Preference endpoints, game-tag curation and the
// enrichment worker all consume the same tables.
package tags

import "strings"

// Vocabulary is the fixed set of tags users can declare preferences for
// and games can be tagged with.
var Vocabulary = []string{
	"Action", "Adventure", "RPG", "Strategy", "Simulation", "Sports",
	"Racing", "Puzzle", "Indie", "Casual", "Multiplayer", "Singleplayer",
	"FPS", "Horror", "Sci-Fi", "Fantasy", "Open World", "Story Rich",
	"Co-op", "Competitive", "Sandbox", "Survival", "Crafting", "Building",
}

// aliases maps raw store strings that don't match the vocabulary verbatim
// to their canonical tag. Raw strings without an alias are dropped.
var aliases = map[string]string{
	"Role-playing":          "RPG",
	"Role-Playing":          "RPG",
	"RPGs":                  "RPG",
	"Massively Multiplayer": "Multiplayer",
	"Online Multi-Player":   "Multiplayer",
	"Multi-player":          "Multiplayer",
	"Single-player":         "Singleplayer",
	"Local Co-op":           "Co-op",
	"Online Co-op":          "Co-op",
	"Co-operative":          "Co-op",
	"Shooter":               "FPS",
	"First-Person Shooter":  "FPS",
	"PvP":                   "Competitive",
	"Online PvP":            "Competitive",
	"Science Fiction":       "Sci-Fi",
	"Science & Fiction":     "Sci-Fi",
	"Open-World":            "Open World",
	"City Builder":          "Building",
	"Base Building":         "Building",
	"Driving":               "Racing",
	"Sport":                 "Sports",
}

var (
	vocabSet        map[string]bool
	vocabLower      map[string]string
	aliasLower      map[string]string
)

func init() {
	vocabSet = make(map[string]bool, len(Vocabulary))
	vocabLower = make(map[string]string, len(Vocabulary))
	for _, tag := range Vocabulary {
		vocabSet[tag] = true
		vocabLower[strings.ToLower(tag)] = tag
	}

	aliasLower = make(map[string]string, len(aliases))
	for raw, tag := range aliases {
		aliasLower[strings.ToLower(raw)] = tag
	}
}

// IsCanonical reports whether tag is part of the vocabulary as-is.
func IsCanonical(tag string) bool {
	return vocabSet[tag]
}

// Normalize maps a raw store string to its canonical tag. Lookup order is
// case-sensitive (vocabulary, then aliases), then case-insensitive over
// both tables. Unmapped strings report ok=false and are dropped by callers.
func Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if vocabSet[raw] {
		return raw, true
	}
	if tag, ok := aliases[raw]; ok {
		return tag, true
	}
	lower := strings.ToLower(raw)
	if tag, ok := vocabLower[lower]; ok {
		return tag, true
	}
	if tag, ok := aliasLower[lower]; ok {
		return tag, true
	}
	return "", false
}

// NormalizeAll normalizes a list of raw strings into a deduplicated list
// of canonical tags, preserving first-appearance order.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range raw {
		tag, ok := Normalize(r)
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
