package socialite

import (
	"errors"
	"fmt"
)

// Sentinel errors for the flow preconditions. All of them are terminal for
// the current attempt: the caller must restart from RedirectURL.
var (
	// ErrInvalidState means the CSRF state parameter was missing, already
	// consumed, or did not match the stored value.
	ErrInvalidState = errors.New("socialite: invalid state parameter")

	// ErrMissingCode means the provider callback carried no authorization code.
	ErrMissingCode = errors.New("socialite: authorization code not provided")
)

// UnsupportedProviderError is returned by the Manager for unknown names.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("socialite: unsupported provider: %s", e.Name)
}

// TokenExchangeError reports a failed code-for-token or refresh exchange.
// The message is a fixed sanitized template; the raw upstream body is only
// written to the operator log, never carried here.
type TokenExchangeError struct {
	// StatusCode is the upstream HTTP status, 0 when the response was 2xx
	// but the body was unusable (missing access_token, embedded error).
	StatusCode int

	msg string
}

func (e *TokenExchangeError) Error() string { return e.msg }

// tokenExchangeStatusError builds the non-2xx variant.
func tokenExchangeStatusError(status int) *TokenExchangeError {
	return &TokenExchangeError{
		StatusCode: status,
		msg:        fmt.Sprintf("socialite: failed to exchange authorization code for access token (HTTP %d); check client credentials and redirect URI", status),
	}
}

// tokenExchangeBodyError builds the 2xx-but-unusable variant.
func tokenExchangeBodyError(reason string) *TokenExchangeError {
	return &TokenExchangeError{msg: "socialite: token exchange failed: " + reason}
}

// UserDataError reports a failed user-info fetch. Same sanitization rule as
// TokenExchangeError.
type UserDataError struct {
	StatusCode int
}

func (e *UserDataError) Error() string {
	return fmt.Sprintf("socialite: failed to retrieve user data from provider (HTTP %d); token may be invalid or expired", e.StatusCode)
}
