package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gameshelf/backend/internal/platform"

	"github.com/rs/zerolog"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(func() string { return "test-key" }, zerolog.Nop())
	if srv != nil {
		c.APIBaseURL = srv.URL
		c.StoreBaseURL = srv.URL
		c.HTTPClient = srv.Client()
	}
	return c
}

func TestResolveIDAcceptsSteamID64(t *testing.T) {
	c := newTestClient(nil) // no server: a valid id64 must not hit the network

	cases := []string{
		"76561197960287930",
		"https://steamcommunity.com/profiles/76561197960287930",
		"https://steamcommunity.com/profiles/76561197960287930/games",
		"  76561197960287930  ",
	}
	for _, input := range cases {
		got, err := c.ResolveID(context.Background(), input)
		if err != nil {
			t.Errorf("ResolveID(%q) error: %v", input, err)
			continue
		}
		if got != "76561197960287930" {
			t.Errorf("ResolveID(%q) = %q", input, got)
		}
	}
}

func TestResolveIDRejectsWrongLengthDigits(t *testing.T) {
	c := newTestClient(nil)

	for _, input := range []string{"12345", "765611979602879301"} {
		_, err := c.ResolveID(context.Background(), input)
		if !errors.Is(err, platform.ErrMalformedInput) {
			t.Errorf("ResolveID(%q) error = %v, want ErrMalformedInput", input, err)
		}
	}
}

func TestResolveIDMissingKey(t *testing.T) {
	c := NewClient(func() string { return "" }, zerolog.Nop())
	_, err := c.ResolveID(context.Background(), "76561197960287930")
	if !errors.Is(err, platform.ErrCredentialsMissing) {
		t.Errorf("error = %v, want ErrCredentialsMissing", err)
	}
}

func TestResolveIDVanity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("vanityurl"); got != "gaben" {
			t.Errorf("vanityurl = %q, want gaben", got)
		}
		w.Write([]byte(`{"response": {"success": 1, "steamid": "76561197960287930"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	got, err := c.ResolveID(context.Background(), "https://steamcommunity.com/id/gaben/")
	if err != nil {
		t.Fatalf("ResolveID error: %v", err)
	}
	if got != "76561197960287930" {
		t.Errorf("ResolveID = %q", got)
	}
}

func TestResolveIDVanityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"success": 42, "message": "No match"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.ResolveID(context.Background(), "nosuchvanity")
	if !errors.Is(err, platform.ErrIdentityNotFound) {
		t.Errorf("error = %v, want ErrIdentityNotFound", err)
	}
}

func TestOwnedGamesParsesAndSkipsIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("include_appinfo"); got != "true" {
			t.Errorf("include_appinfo = %q, want true", got)
		}
		w.Write([]byte(`{"response": {"game_count": 3, "games": [
			{"appid": 440, "name": "Team Fortress 2", "playtime_forever": 7200, "img_icon_url": "icon440", "img_logo_url": "logo440"},
			{"appid": 0, "name": "Broken"},
			{"appid": 570, "name": ""}
		]}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	games, err := c.OwnedGames(context.Background(), "76561197960287930")
	if err != nil {
		t.Fatalf("OwnedGames error: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	g := games[0]
	if g.ExternalID != "440" || g.Name != "Team Fortress 2" || g.Playtime != 7200 || g.IconURL != "icon440" || g.LogoURL != "logo440" {
		t.Errorf("unexpected game: %+v", g)
	}
}

func TestOwnedGamesEmptyLibrary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"game_count": 0, "games": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.OwnedGames(context.Background(), "76561197960287930")
	if !errors.Is(err, platform.ErrEmptyLibrary) {
		t.Errorf("error = %v, want ErrEmptyLibrary", err)
	}
}

func TestOwnedGamesPrivateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.OwnedGames(context.Background(), "76561197960287930")
	if !errors.Is(err, platform.ErrAccessDenied) {
		t.Errorf("error = %v, want ErrAccessDenied", err)
	}
}

func TestOwnedGamesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"error": "internal failure"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.OwnedGames(context.Background(), "76561197960287930")
	if !errors.Is(err, platform.ErrRemoteUnavailable) {
		t.Errorf("error = %v, want ErrRemoteUnavailable", err)
	}
}

func TestAppDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"440": {"success": true, "data": {
			"genres": [{"description": "Action"}, {"description": "Free to Play"}],
			"categories": [{"description": "Multi-player"}]
		}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	details, err := c.AppDetails(context.Background(), "440")
	if err != nil {
		t.Fatalf("AppDetails error: %v", err)
	}
	if details == nil {
		t.Fatal("details is nil")
	}
	if len(details.Genres) != 2 || details.Genres[0] != "Action" {
		t.Errorf("genres = %v", details.Genres)
	}
	if len(details.Categories) != 1 || details.Categories[0] != "Multi-player" {
		t.Errorf("categories = %v", details.Categories)
	}
}

func TestAppDetailsUnknownApp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"999999": {"success": false}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	details, err := c.AppDetails(context.Background(), "999999")
	if err != nil {
		t.Fatalf("AppDetails error: %v", err)
	}
	if details != nil {
		t.Errorf("details = %+v, want nil for unsuccessful entry", details)
	}
}

func TestAppDetailsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.AppDetails(context.Background(), "440")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}
