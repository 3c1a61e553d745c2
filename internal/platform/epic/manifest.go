package epic

import (
	"encoding/json"
	"regexp"
	"strings"

	"gameshelf/backend/internal/platform"

	"github.com/gosimple/slug"
)

// Launcher exports and third-party tools disagree on field names; each
// logical field is looked up under every spelling seen in the wild.
var (
	nameKeys    = []string{"AppName", "DisplayName", "name", "title"}
	appIDKeys   = []string{"AppId", "AppID", "appId", "id"}
	offerIDKeys = []string{"OfferId", "offerId"}

	// listKeys are the wrapper keys a games array may hide under.
	listKeys = []string{"games", "Items", "items", "library"}
)

var keyValueLine = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]+)"`)

// ParseManifest parses Epic launcher manifest data into the canonical game
// shape. Three shapes are accepted, tried in order:
//
//  1. a JSON array of game objects
//  2. a JSON object wrapping a games array (under a known key, or any
//     nested array of objects)
//  3. free text, scanning for "key": "value" pairs as a last resort
//
// Entries without a recognizable name are skipped. Input with no
// recognizable entries yields an empty slice, not an error.
func ParseManifest(data string) []platform.Game {
	trimmed := strings.TrimSpace(data)

	var arrayDoc []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &arrayDoc); err == nil {
		return parseEntryArray(arrayDoc)
	}

	var objectDoc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &objectDoc); err == nil {
		return parseWrappedArray(objectDoc)
	}

	return parseFreeText(data)
}

func parseEntryArray(entries []json.RawMessage) []platform.Game {
	var games []platform.Game
	for _, raw := range entries {
		var entry map[string]interface{}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if game, ok := gameFromEntry(entry); ok {
			games = append(games, game)
		}
	}
	return games
}

func parseWrappedArray(doc map[string]json.RawMessage) []platform.Game {
	// A known wrapper key that yields no games does not end the search;
	// the entries may sit under another key in the same document.
	for _, key := range listKeys {
		if raw, ok := doc[key]; ok {
			var entries []json.RawMessage
			if err := json.Unmarshal(raw, &entries); err != nil {
				continue
			}
			if games := parseEntryArray(entries); len(games) > 0 {
				return games
			}
		}
	}

	// No known wrapper key matched; accept any nested array that yields games.
	for _, raw := range doc {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			continue
		}
		if games := parseEntryArray(entries); len(games) > 0 {
			return games
		}
	}
	return nil
}

func parseFreeText(data string) []platform.Game {
	var games []platform.Game
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := keyValueLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		if strings.Contains(key, "name") || strings.Contains(key, "title") || strings.Contains(key, "app") {
			games = append(games, platform.Game{Name: m[2]})
		}
	}
	return games
}

func gameFromEntry(entry map[string]interface{}) (platform.Game, bool) {
	name := firstString(entry, nameKeys)
	if name == "" {
		return platform.Game{}, false
	}

	appID := firstString(entry, appIDKeys)
	externalID := firstString(entry, offerIDKeys)
	if externalID == "" {
		externalID = appID
	}

	return platform.Game{
		ExternalID: externalID,
		Name:       name,
	}, true
}

func firstString(entry map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if v, ok := entry[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// FallbackExternalID derives a stable external id for a game imported
// without an offer id, so re-imports upsert instead of duplicating.
func FallbackExternalID(name string) string {
	return "epic-" + slug.Make(name)
}

// ParseManualList parses newline-separated manual entries of the form
// "Game Name|offer-id" or a bare "Game Name".
func ParseManualList(text string) []platform.Game {
	var games []platform.Game
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", 2)
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}

		externalID := ""
		if len(parts) > 1 {
			externalID = strings.TrimSpace(parts[1])
		}

		games = append(games, platform.Game{
			ExternalID: externalID,
			Name:       name,
		})
	}
	return games
}
