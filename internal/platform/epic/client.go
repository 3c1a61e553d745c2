// Package epic imports a user's library from the Epic Games Ecom API or
// from launcher manifest data pasted by the user.
package epic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gameshelf/backend/internal/platform"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTokenURL       = "https://api.epicgames.dev/epic/oauth/v2/token"
	defaultEcomBaseURL    = "https://api.epicgames.dev/epic/ecom/v1"
	defaultCatalogBaseURL = "https://catalog-public-service-prod.ol.epicgames.com/catalog/api/shared/namespace/fn"
)

// Credentials are the client-credentials grant inputs for the Epic API.
type Credentials struct {
	ClientID     string
	ClientSecret string
	DeploymentID string
}

// Client talks to the Epic Games Ecom and catalog APIs.
type Client struct {
	// Credentials are read per call; missing values yield
	// ErrCredentialsMissing instead of a startup failure.
	Credentials func() Credentials

	TokenURL       string
	EcomBaseURL    string
	CatalogBaseURL string
	HTTPClient     *http.Client

	log zerolog.Logger
}

// NewClient builds a Client with the production endpoints and a 10s timeout.
func NewClient(credentials func() Credentials, log zerolog.Logger) *Client {
	return &Client{
		Credentials:    credentials,
		TokenURL:       defaultTokenURL,
		EcomBaseURL:    defaultEcomBaseURL,
		CatalogBaseURL: defaultCatalogBaseURL,
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
		log:            log.With().Str("component", "epic").Logger(),
	}
}

// FetchLibrary exchanges client credentials for a bearer token and fetches
// the entitlements for the given account, mapped to the canonical game
// shape. Logo URLs are filled in best-effort from the catalog API.
func (c *Client) FetchLibrary(ctx context.Context, accountID string) ([]platform.Game, error) {
	creds := c.Credentials()
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: EPIC_CLIENT_ID and EPIC_CLIENT_SECRET are not set", platform.ErrCredentialsMissing)
	}

	authed, err := c.authorizedClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/accounts/%s/entitlements?includeRedeemed=true", c.EcomBaseURL, accountID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrRemoteUnavailable, err)
	}

	resp, err := authed.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: Epic API credentials rejected", platform.ErrAccessDenied)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: partner access may be required for the Ecom API", platform.ErrAccessDenied)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", platform.ErrRemoteUnavailable, resp.StatusCode)
	}

	var body struct {
		Items []struct {
			ID    string `json:"id"`
			Type  string `json:"type"`
			Offer struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Namespace string `json:"namespace"`
			} `json:"offer"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding entitlements: %v", platform.ErrRemoteUnavailable, err)
	}

	var games []platform.Game
	for _, item := range body.Items {
		if item.Type != "ENTITLEMENT" {
			continue
		}
		externalID := item.Offer.ID
		if externalID == "" {
			externalID = "epic-" + item.ID
		}
		name := item.Offer.Title
		if name == "" {
			name = "Unknown Game"
		}
		games = append(games, platform.Game{
			ExternalID: externalID,
			Name:       name,
			LogoURL:    c.OfferLogo(ctx, item.Offer.ID),
		})
	}

	if len(games) == 0 {
		return nil, fmt.Errorf("%w: account %s has no entitlements", platform.ErrEmptyLibrary, accountID)
	}
	return games, nil
}

// authorizedClient performs the client-credentials exchange and returns an
// HTTP client that attaches the bearer token to each request.
func (c *Client) authorizedClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
		EndpointParams: map[string][]string{
			"deployment_id": {creds.DeploymentID},
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	if _, err := cfg.Token(ctx); err != nil {
		return nil, fmt.Errorf("%w: token exchange failed: %v", platform.ErrRemoteUnavailable, err)
	}
	return cfg.Client(ctx), nil
}

// OfferLogo fetches the wide offer image URL for an offer id from the
// catalog API. Best effort: any failure yields an empty string.
func (c *Client) OfferLogo(ctx context.Context, offerID string) string {
	if offerID == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CatalogBaseURL+"/items/"+offerID, nil)
	if err != nil {
		return ""
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("offer_id", offerID).Msg("catalog lookup failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		KeyImages []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"keyImages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}

	for _, img := range body.KeyImages {
		if img.Type == "OfferImageWide" {
			return img.URL
		}
	}
	return ""
}
