package epic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gameshelf/backend/internal/platform"

	"github.com/rs/zerolog"
)

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(func() Credentials {
		return Credentials{ClientID: "client", ClientSecret: "secret", DeploymentID: "prod"}
	}, zerolog.Nop())
	if srv != nil {
		c.TokenURL = srv.URL + "/token"
		c.EcomBaseURL = srv.URL + "/ecom"
		c.CatalogBaseURL = srv.URL + "/catalog"
		c.HTTPClient = srv.Client()
	}
	return c
}

func TestFetchLibraryMissingCredentials(t *testing.T) {
	c := NewClient(func() Credentials { return Credentials{} }, zerolog.Nop())
	_, err := c.FetchLibrary(context.Background(), "account-1")
	if !errors.Is(err, platform.ErrCredentialsMissing) {
		t.Errorf("error = %v, want ErrCredentialsMissing", err)
	}
}

func TestFetchLibrary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing token form: %v", err)
		}
		if got := r.Form.Get("deployment_id"); got != "prod" {
			t.Errorf("deployment_id = %q, want prod", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/ecom/accounts/account-1/entitlements", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.Contains(got, "test-token") {
			t.Errorf("Authorization = %q, want bearer test-token", got)
		}
		w.Write([]byte(`{"items": [
			{"id": "ent-1", "type": "ENTITLEMENT", "offer": {"id": "offer-1", "title": "Rocket League"}},
			{"id": "ent-2", "type": "ENTITLEMENT", "offer": {"id": "", "title": ""}},
			{"id": "ent-3", "type": "AUDIENCE", "offer": {"id": "offer-3", "title": "Not a game"}}
		]}`))
	})
	mux.HandleFunc("/catalog/items/offer-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"keyImages": [
			{"type": "Thumbnail", "url": "https://img/thumb.png"},
			{"type": "OfferImageWide", "url": "https://img/wide.png"}
		]}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	games, err := c.FetchLibrary(context.Background(), "account-1")
	if err != nil {
		t.Fatalf("FetchLibrary error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2 (non-entitlement items skipped)", len(games))
	}
	if games[0].ExternalID != "offer-1" || games[0].Name != "Rocket League" {
		t.Errorf("games[0] = %+v", games[0])
	}
	if games[0].LogoURL != "https://img/wide.png" {
		t.Errorf("games[0].LogoURL = %q, want the wide offer image", games[0].LogoURL)
	}
	if games[1].ExternalID != "epic-ent-2" || games[1].Name != "Unknown Game" {
		t.Errorf("games[1] = %+v, want synthesized id and placeholder name", games[1])
	}
}

func TestFetchLibraryAccessDenied(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/ecom/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.FetchLibrary(context.Background(), "account-1")
	if !errors.Is(err, platform.ErrAccessDenied) {
		t.Errorf("error = %v, want ErrAccessDenied", err)
	}
}

func TestFetchLibraryEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/ecom/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.FetchLibrary(context.Background(), "account-1")
	if !errors.Is(err, platform.ErrEmptyLibrary) {
		t.Errorf("error = %v, want ErrEmptyLibrary", err)
	}
}

func TestFetchLibraryTokenExchangeFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.FetchLibrary(context.Background(), "account-1")
	if !errors.Is(err, platform.ErrRemoteUnavailable) {
		t.Errorf("error = %v, want ErrRemoteUnavailable", err)
	}
}

func TestOfferLogoBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if got := c.OfferLogo(context.Background(), "missing-offer"); got != "" {
		t.Errorf("OfferLogo for missing offer = %q, want empty", got)
	}
	if got := c.OfferLogo(context.Background(), ""); got != "" {
		t.Errorf("OfferLogo for empty offer id = %q, want empty", got)
	}
}
