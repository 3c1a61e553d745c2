// Package steam imports a user's library from the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gameshelf/backend/internal/platform"

	"github.com/rs/zerolog"
)

const (
	defaultAPIBaseURL   = "http://api.steampowered.com"
	defaultStoreBaseURL = "https://store.steampowered.com"

	// A SteamID64 is always 17 digits.
	steamID64Digits = 17
)

// ErrRateLimited is returned by AppDetails when the store API answers 429.
// The enrichment worker backs off and retries on this signal.
var ErrRateLimited = errors.New("steam store rate limited")

// AppDetails holds the genre/category strings the store reports for a title.
type AppDetails struct {
	Genres     []string
	Categories []string
}

// Client talks to the Steam Web API and the Steam store API.
type Client struct {
	// APIKey is read per call so a key added after startup is picked up
	// and a missing key yields ErrCredentialsMissing, not a crash.
	APIKey func() string

	APIBaseURL   string
	StoreBaseURL string
	HTTPClient   *http.Client

	log zerolog.Logger
}

// NewClient builds a Client with the standard endpoints and a 10s timeout.
func NewClient(apiKey func() string, log zerolog.Logger) *Client {
	return &Client{
		APIKey:       apiKey,
		APIBaseURL:   defaultAPIBaseURL,
		StoreBaseURL: defaultStoreBaseURL,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log.With().Str("component", "steam").Logger(),
	}
}

// ResolveID normalizes a user-supplied identifier (profile URL, raw
// SteamID64 or vanity name) to a canonical SteamID64 string.
func (c *Client) ResolveID(ctx context.Context, input string) (string, error) {
	key := c.APIKey()
	if key == "" {
		return "", fmt.Errorf("%w: STEAM_API_KEY is not set", platform.ErrCredentialsMissing)
	}

	input = strings.TrimSpace(input)

	// Strip steamcommunity profile URL prefixes down to the id segment.
	if idx := strings.Index(input, "steamcommunity.com/profiles/"); idx >= 0 {
		input = strings.SplitN(input[idx+len("steamcommunity.com/profiles/"):], "/", 2)[0]
	} else if idx := strings.Index(input, "steamcommunity.com/id/"); idx >= 0 {
		input = strings.SplitN(input[idx+len("steamcommunity.com/id/"):], "/", 2)[0]
	}

	if isDigits(input) {
		if len(input) != steamID64Digits {
			return "", fmt.Errorf("%w: SteamID64 must be %d digits, got %d", platform.ErrMalformedInput, steamID64Digits, len(input))
		}
		return input, nil
	}

	return c.resolveVanity(ctx, key, input)
}

func (c *Client) resolveVanity(ctx context.Context, key, vanity string) (string, error) {
	q := url.Values{}
	q.Set("key", key)
	q.Set("vanityurl", vanity)

	var body struct {
		Response struct {
			Success int    `json:"success"`
			SteamID string `json:"steamid"`
			Message string `json:"message"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, c.APIBaseURL+"/ISteamUser/ResolveVanityURL/v0001/?"+q.Encode(), nil, &body); err != nil {
		return "", err
	}

	switch body.Response.Success {
	case 1:
		return body.Response.SteamID, nil
	case 42: // Steam's "no match" code
		return "", fmt.Errorf("%w: vanity name %q", platform.ErrIdentityNotFound, vanity)
	default:
		return "", fmt.Errorf("%w: ResolveVanityURL returned success=%d %s", platform.ErrRemoteUnavailable, body.Response.Success, body.Response.Message)
	}
}

// OwnedGames fetches the library for a resolved SteamID64 and maps it to
// the canonical game shape. Entries missing an appid or a name are skipped
// rather than failing the batch.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]platform.Game, error) {
	key := c.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: STEAM_API_KEY is not set", platform.ErrCredentialsMissing)
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("steamid", steamID)
	q.Set("format", "json")
	q.Set("include_appinfo", "true")
	q.Set("include_played_free_games", "true")

	var body struct {
		Response struct {
			GameCount int    `json:"game_count"`
			Error     string `json:"error"`
			Games     []struct {
				AppID           int64  `json:"appid"`
				Name            string `json:"name"`
				PlaytimeForever int    `json:"playtime_forever"`
				ImgIconURL      string `json:"img_icon_url"`
				ImgLogoURL      string `json:"img_logo_url"`
			} `json:"games"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, c.APIBaseURL+"/IPlayerService/GetOwnedGames/v0001/?"+q.Encode(), nil, &body); err != nil {
		return nil, err
	}

	if body.Response.Error != "" {
		return nil, fmt.Errorf("%w: %s", platform.ErrRemoteUnavailable, body.Response.Error)
	}

	games := make([]platform.Game, 0, len(body.Response.Games))
	for _, g := range body.Response.Games {
		if g.AppID == 0 || g.Name == "" {
			c.log.Debug().Int64("appid", g.AppID).Msg("skipping owned game with missing fields")
			continue
		}
		games = append(games, platform.Game{
			ExternalID: strconv.FormatInt(g.AppID, 10),
			Name:       g.Name,
			Playtime:   g.PlaytimeForever,
			IconURL:    g.ImgIconURL,
			LogoURL:    g.ImgLogoURL,
		})
	}

	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no games for steamid %s", platform.ErrEmptyLibrary, steamID)
	}
	return games, nil
}

// AppDetails fetches genre/category strings for one appid from the store
// API. A missing or unsuccessful entry yields (nil, nil); HTTP 429 yields
// ErrRateLimited.
func (c *Client) AppDetails(ctx context.Context, appID string) (*AppDetails, error) {
	q := url.Values{}
	q.Set("appids", appID)
	q.Set("l", "en")

	var body map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			Genres []struct {
				Description string `json:"description"`
			} `json:"genres"`
			Categories []struct {
				Description string `json:"description"`
			} `json:"categories"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, c.StoreBaseURL+"/api/appdetails?"+q.Encode(), rateLimitStatus, &body); err != nil {
		return nil, err
	}

	entry, ok := body[appID]
	if !ok || !entry.Success {
		return nil, nil
	}

	details := &AppDetails{}
	for _, g := range entry.Data.Genres {
		details.Genres = append(details.Genres, g.Description)
	}
	for _, cat := range entry.Data.Categories {
		details.Categories = append(details.Categories, cat.Description)
	}
	return details, nil
}

// rateLimitStatus maps HTTP 429 to ErrRateLimited for store API calls.
func rateLimitStatus(status int) error {
	if status == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}

// getJSON performs a GET and decodes the JSON body. statusHook, when set,
// gets first claim on non-200 statuses.
func (c *Client) getJSON(ctx context.Context, rawURL string, statusHook func(int) error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", platform.ErrRemoteUnavailable, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", platform.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if statusHook != nil {
			if hookErr := statusHook(resp.StatusCode); hookErr != nil {
				return hookErr
			}
		}
		if resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: profile may be private or the API key lacks access", platform.ErrAccessDenied)
		}
		return fmt.Errorf("%w: unexpected status %d", platform.ErrRemoteUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", platform.ErrRemoteUnavailable, err)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
