package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinels for the JSON error surface of the auth endpoints.
var (
	ErrBadRequest          = &HTTPError{Code: "bad_request", Message: "Bad request", Status: http.StatusBadRequest}
	ErrInvalidState        = &HTTPError{Code: "invalid_state", Message: "Invalid or expired state", Status: http.StatusForbidden}
	ErrMissingCode         = &HTTPError{Code: "missing_code", Message: "Missing authorization code", Status: http.StatusBadRequest}
	ErrUnsupportedProvider = &HTTPError{Code: "unsupported_provider", Message: "Unsupported provider", Status: http.StatusNotFound}
	ErrExchangeFailed      = &HTTPError{Code: "exchange_failed", Message: "Token exchange failed", Status: http.StatusBadGateway}
	ErrUserFetchFailed     = &HTTPError{Code: "user_fetch_failed", Message: "Could not fetch user data", Status: http.StatusBadGateway}
	ErrInternalServerError = &HTTPError{Code: "internal_error", Message: "Internal server error", Status: http.StatusInternalServerError}
)

// HTTPError represents a standard API error.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// WithDetail returns a copy of the error with specific details.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  detail,
		Status:  e.Status,
	}
}

// WriteError serializes err as the JSON error envelope. Errors that are not
// an *HTTPError collapse to the internal sentinel.
func WriteError(w http.ResponseWriter, err error) {
	httpErr := ErrInternalServerError
	var hErr *HTTPError
	if errors.As(err, &hErr) {
		httpErr = hErr
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}
