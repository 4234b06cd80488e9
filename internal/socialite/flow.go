package socialite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/socialite/internal/metrics"
	"github.com/dropDatabas3/socialite/internal/observability/logger"
	tokens "github.com/dropDatabas3/socialite/internal/security/token"
)

// stateBytes produces a 40-character base64url state token.
const stateBytes = 30

// maxResponseBytes caps how much of an upstream body we read (and log).
const maxResponseBytes = 1 << 20

// endpoints are the three fixed URLs of a provider.
type endpoints struct {
	auth  string
	token string
	user  string
}

// flow is the shared OAuth engine embedded by every provider variant. It owns
// the state lifecycle, authorization-URL construction, code-for-token
// exchange, user retrieval orchestration and the optional refresh grant.
// Variants override only the step hooks they need.
type flow struct {
	name      string
	cfg       ProviderConfig
	http      *http.Client
	ep        endpoints
	stateless bool
	signer    StateSigner

	// Step hooks. Constructors set the defaults; variants replace the ones
	// where their provider deviates (GitHub's exchange headers, Facebook's
	// avatar promotion, ...). mapUser is always variant-supplied.
	exchange func(ctx context.Context, code string) (*TokenBundle, error)
	fetchRaw func(ctx context.Context, accessToken string) (map[string]any, error)
	mapUser  func(raw map[string]any) *User
}

func newFlow(name string, cfg ProviderConfig, httpClient *http.Client, ep endpoints) *flow {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	f := &flow{name: name, cfg: cfg, http: httpClient, ep: ep}
	f.exchange = f.defaultExchange
	f.fetchRaw = f.defaultFetchRaw
	return f
}

func (f *flow) Name() string { return f.name }

// Stateless disables state verification. Weakens CSRF protection; only for
// flows without a browser session.
func (f *flow) Stateless() { f.stateless = true }

// setSigner installs an optional signed-state signer used in stateless mode.
func (f *flow) setSigner(s StateSigner) { f.signer = s }

// RedirectURL builds the authorization redirect embedding a fresh state.
func (f *flow) RedirectURL(ctx context.Context, sess Session) (string, error) {
	state, err := f.mintState(sess)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(f.ep.auth)
	if err != nil {
		return "", fmt.Errorf("socialite: parse auth url: %w", err)
	}
	q := u.Query()
	q.Set("client_id", f.cfg.ClientID)
	q.Set("redirect_uri", f.cfg.RedirectURL)
	q.Set("scope", strings.Join(f.cfg.Scopes, " "))
	q.Set("response_type", "code")
	q.Set("state", state)
	// Defaults requesting refresh-token issuance where supported. Providers
	// that ignore them (GitHub, Twitter) are unaffected.
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// mintState generates and persists a new CSRF state. Only the most recent
// state is valid: a previous unconsumed one is overwritten.
func (f *flow) mintState(sess Session) (string, error) {
	if f.stateless && f.signer != nil {
		return f.signer.Sign(f.name)
	}
	state, err := tokens.GenerateOpaqueToken(stateBytes)
	if err != nil {
		return "", fmt.Errorf("socialite: generate state: %w", err)
	}
	if sess != nil {
		sess.Set(SessionStateKey, state)
	}
	return state, nil
}

// verifyState consumes the stored state and compares it against the callback
// value. The stored value is deleted before comparing: one verification
// attempt, pass or fail, burns the state (replay protection).
func (f *flow) verifyState(sess Session, got string) error {
	if f.stateless {
		if f.signer != nil {
			if got == "" {
				return ErrInvalidState
			}
			if err := f.signer.Verify(f.name, got); err != nil {
				return ErrInvalidState
			}
		}
		return nil
	}

	if sess == nil || got == "" {
		return ErrInvalidState
	}
	stored, ok := sess.Get(SessionStateKey)
	sess.Remove(SessionStateKey)
	if !ok || stored == "" {
		return ErrInvalidState
	}
	// Compare digests: constant time, independent of value lengths.
	a := sha256.Sum256([]byte(stored))
	b := sha256.Sum256([]byte(got))
	if subtle.ConstantTimeCompare(a[:], b[:]) != 1 {
		return ErrInvalidState
	}
	return nil
}

// AccessToken verifies state and exchanges the callback code for tokens.
func (f *flow) AccessToken(ctx context.Context, sess Session, query url.Values) (*TokenBundle, error) {
	if err := f.verifyState(sess, query.Get("state")); err != nil {
		return nil, err
	}
	code := query.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}
	return f.exchange(ctx, code)
}

// User runs the full callback path and maps the result.
func (f *flow) User(ctx context.Context, sess Session, query url.Values) (*User, error) {
	bundle, err := f.AccessToken(ctx, sess, query)
	if err != nil {
		return nil, err
	}
	return f.UserFromToken(ctx, bundle.AccessToken)
}

// UserFromToken fetches the raw user payload and maps it.
func (f *flow) UserFromToken(ctx context.Context, accessToken string) (*User, error) {
	raw, err := f.fetchRaw(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return f.mapUser(raw), nil
}

// defaultExchange is the plain OAuth 2.0 code exchange: form-encoded POST
// with grant_type=authorization_code.
func (f *flow) defaultExchange(ctx context.Context, code string) (*TokenBundle, error) {
	form := url.Values{}
	form.Set("client_id", f.cfg.ClientID)
	form.Set("client_secret", f.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", f.cfg.RedirectURL)
	form.Set("grant_type", "authorization_code")

	status, body, err := f.postForm(ctx, f.ep.token, form, false)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		f.logUpstream(ctx, "token exchange failed", status, body)
		return nil, tokenExchangeStatusError(status)
	}
	return parseTokenBundle(ctx, f, body)
}

// refreshToken performs the refresh-token grant against the token endpoint.
func (f *flow) refreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	form := url.Values{}
	form.Set("client_id", f.cfg.ClientID)
	form.Set("client_secret", f.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	status, body, err := f.postForm(ctx, f.ep.token, form, true)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		f.logUpstream(ctx, "token refresh failed", status, body)
		return nil, tokenExchangeStatusError(status)
	}
	return parseTokenBundle(ctx, f, body)
}

// parseTokenBundle decodes a 2xx token-endpoint body, rejecting bodies that
// carry an embedded error or lack an access_token.
func parseTokenBundle(ctx context.Context, f *flow, body []byte) (*TokenBundle, error) {
	var probe struct {
		Error     string `json:"error"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		f.logUpstream(ctx, "token response not JSON", http.StatusOK, body)
		return nil, tokenExchangeBodyError("malformed provider response")
	}
	if probe.Error != "" {
		f.logUpstream(ctx, "token response carried error", http.StatusOK, body)
		return nil, tokenExchangeBodyError("provider rejected the authorization code")
	}

	var bundle TokenBundle
	if err := json.Unmarshal(body, &bundle); err != nil || bundle.AccessToken == "" {
		f.logUpstream(ctx, "access_token missing in token response", http.StatusOK, body)
		return nil, tokenExchangeBodyError("access token not found in provider response")
	}
	return &bundle, nil
}

// defaultFetchRaw is the authenticated GET against the user-info endpoint.
func (f *flow) defaultFetchRaw(ctx context.Context, accessToken string) (map[string]any, error) {
	status, body, err := f.getJSON(ctx, f.ep.user, accessToken)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		f.logUpstream(ctx, "user fetch failed", status, body)
		return nil, &UserDataError{StatusCode: status}
	}
	raw, err := decodeJSONMap(body)
	if err != nil {
		f.logUpstream(ctx, "user payload not JSON", status, body)
		return nil, &UserDataError{StatusCode: status}
	}
	return raw, nil
}

// postForm sends a form-encoded POST. acceptJSON adds the explicit JSON
// accept header some endpoints (GitHub) require.
func (f *flow) postForm(ctx context.Context, endpoint string, form url.Values, acceptJSON bool) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("socialite: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := f.http.Do(req)
	metrics.UpstreamLatency.WithLabelValues(f.name, "token").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return 0, nil, tokenExchangeBodyError("provider unreachable")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	return resp.StatusCode, body, nil
}

// getJSON sends an authenticated GET with a bearer token.
func (f *flow) getJSON(ctx context.Context, endpoint, accessToken string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("socialite: build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.http.Do(req)
	metrics.UpstreamLatency.WithLabelValues(f.name, "user").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return 0, nil, &UserDataError{StatusCode: 0}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	return resp.StatusCode, body, nil
}

// logUpstream routes the raw upstream failure detail to the operator log.
// This is the only place status+body are captured; sanitized errors are what
// the caller, session storage and redirects ever see.
func (f *flow) logUpstream(ctx context.Context, msg string, status int, body []byte) {
	logger.From(ctx).Error(msg,
		logger.Component("socialite."+f.name),
		logger.UpstreamStatus(status),
		logger.UpstreamBody(string(body)),
	)
}

// decodeJSONMap decodes a JSON object preserving number fidelity, so numeric
// ids survive string coercion without float formatting artifacts. A body of
// JSON null decodes into a nil map; providers that write into the map after
// fetching would panic on it, so it is rejected here.
func decodeJSONMap(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("payload is not a JSON object")
	}
	return m, nil
}

// coerceString renders ids of any JSON scalar type as strings.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
