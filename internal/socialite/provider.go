// Package socialite implements the server side of OAuth 2.0 authorization
// code login flows against multiple identity providers (Google, Facebook,
// GitHub, Twitter/X, LinkedIn), normalizing their differing endpoints,
// scopes and user-info payloads into one User model.
//
// Architecture:
//   - Provider interface: common flow operations all providers expose
//   - flow: shared engine (state lifecycle, auth URL, exchange, fetch)
//   - Provider implementations: flat variants overriding only the steps
//     where the provider deviates from the default OAuth 2.0 shape
//   - Manager: name → cached Provider resolution with factory extension
package socialite

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session keys used by the flow and the HTTP callback handler.
const (
	SessionStateKey    = "socialite_state"
	SessionUserKey     = "socialite_user"
	SessionProviderKey = "socialite_provider"
	SessionErrorKey    = "socialite_error"
)

// Session is the session-like collaborator contract. Implementations are
// scoped to one user's browsing session. A nil Session is tolerated: state
// storage degrades to "can't store/verify state", it never crashes the flow.
type Session interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// ProviderConfig is the static per-provider configuration. Loaded once at
// startup, immutable thereafter. ClientID and ClientSecret are opaque
// secrets and must never be logged.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// TokenBundle is the provider's token response.
type TokenBundle struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// ExpiresAt returns the absolute expiry, nil when the provider sent none.
func (t *TokenBundle) ExpiresAt(now time.Time) *time.Time {
	if t.ExpiresIn <= 0 {
		return nil
	}
	at := now.Add(time.Duration(t.ExpiresIn) * time.Second)
	return &at
}

// Deps are the shared collaborators injected into every provider. The HTTP
// client owns timeout/retry policy; a nil client falls back to a 10s-timeout
// default. StateSigner is optional and only consulted in stateless mode.
type Deps struct {
	HTTPClient  *http.Client
	StateSigner StateSigner
}

// Provider is the capability set every identity provider implements.
type Provider interface {
	// Name returns the lowercased provider identifier.
	Name() string

	// RedirectURL mints a fresh CSRF state, persists it in sess, and
	// returns the provider authorization URL embedding it. Each call
	// orphans any previous unconsumed state.
	RedirectURL(ctx context.Context, sess Session) (string, error)

	// User runs the full callback path: state verification (unless
	// stateless), code extraction, token exchange, user fetch and mapping.
	// It fails fast at the first violated precondition; any failure is
	// terminal for the attempt.
	User(ctx context.Context, sess Session, query url.Values) (*User, error)

	// AccessToken verifies state and exchanges the callback code for
	// tokens, without fetching the user.
	AccessToken(ctx context.Context, sess Session, query url.Values) (*TokenBundle, error)

	// UserFromToken fetches and maps the user for an existing access token.
	UserFromToken(ctx context.Context, accessToken string) (*User, error)

	// Stateless disables CSRF-state verification for server-to-server
	// flows without a browser session. Explicit opt-in: it weakens CSRF
	// protection and is never the default.
	Stateless()
}

// RefreshableProvider is implemented by providers supporting the
// refresh-token grant.
type RefreshableProvider interface {
	Provider

	// RefreshToken performs the OAuth refresh grant. The result always
	// carries a new access token; refresh token and expiry only when the
	// provider rotates them.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error)
}
