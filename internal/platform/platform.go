// Package platform defines the canonical game shape produced by the store
// import adapters and the failure taxonomy they report.
package platform

import "errors"

// Game is the store-independent shape an adapter produces for one owned
// title. ExternalID together with the platform name forms the upsert key.
type Game struct {
	ExternalID string
	Name       string
	Playtime   int // minutes, 0 when the store does not report it
	IconURL    string
	LogoURL    string
}

// Import failures. Adapters wrap these with %w so handlers can map them to
// HTTP statuses with errors.Is.
var (
	// ErrCredentialsMissing means the platform API credentials are not
	// configured. Never fatal; surfaced to the caller.
	ErrCredentialsMissing = errors.New("platform credentials not configured")

	// ErrIdentityNotFound means the supplied identifier could not be
	// resolved to a platform account.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrAccessDenied covers private profiles and insufficient API scope.
	ErrAccessDenied = errors.New("access denied")

	// ErrRemoteUnavailable covers network failures and unexpected HTTP
	// statuses from the remote API.
	ErrRemoteUnavailable = errors.New("remote API unavailable")

	// ErrEmptyLibrary means the account resolved but owns no games.
	ErrEmptyLibrary = errors.New("library is empty")

	// ErrMalformedInput means the user-supplied data could not be parsed.
	ErrMalformedInput = errors.New("malformed input")
)
