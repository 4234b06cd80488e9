package socialite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialite/internal/http/helpers"
	svc "github.com/dropDatabas3/socialite/internal/http/services/socialite"
	"github.com/dropDatabas3/socialite/internal/session"
	soc "github.com/dropDatabas3/socialite/internal/socialite"
)

// stubProvider returns canned results, or the configured error. userErr
// fails only the callback-side calls, leaving RedirectURL working.
type stubProvider struct {
	name    string
	user    *soc.User
	err     error
	userErr error
	panics  bool
}

func (p *stubProvider) Name() string { return p.name }
func (p *stubProvider) RedirectURL(ctx context.Context, sess soc.Session) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "https://provider.example.com/authorize?state=abc", nil
}
func (p *stubProvider) AccessToken(ctx context.Context, sess soc.Session, q url.Values) (*soc.TokenBundle, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.userErr != nil {
		return nil, p.userErr
	}
	return &soc.TokenBundle{AccessToken: "at"}, nil
}
func (p *stubProvider) User(ctx context.Context, sess soc.Session, q url.Values) (*soc.User, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.userErr != nil {
		return nil, p.userErr
	}
	return p.user, nil
}
func (p *stubProvider) UserFromToken(ctx context.Context, at string) (*soc.User, error) {
	if p.panics {
		panic("upstream payload blew up")
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.userErr != nil {
		return nil, p.userErr
	}
	return p.user, nil
}
func (p *stubProvider) Stateless() {}

type stubManager struct{ providers map[string]soc.Provider }

func (m *stubManager) Driver(name string) (soc.Provider, error) {
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	return nil, &soc.UnsupportedProviderError{Name: name}
}
func (m *stubManager) Names() []string { return nil }

func newTestRouter(t *testing.T, providers map[string]soc.Provider, allowedHosts []string) (*chi.Mux, *session.Manager) {
	t.Helper()

	sessions := session.NewManager(session.NewMemory(time.Minute), "", time.Minute, false)
	service := svc.NewService(svc.Deps{Manager: &stubManager{providers: providers}})
	controllers := NewControllers(Deps{
		Service:              service,
		Sessions:             sessions,
		AllowedRedirectHosts: allowedHosts,
	})

	r := chi.NewRouter()
	r.Get("/auth/socialite/{provider}/redirect", controllers.Redirect.Redirect)
	r.Get("/auth/socialite/{provider}/callback", controllers.Callback.Callback)
	return r, sessions
}

func TestCallback_SuccessRedirectsAndStoresUser(t *testing.T) {
	nick := "octocat"
	p := &stubProvider{name: "github", user: &soc.User{ID: "42", Name: "Octo", Nickname: &nick}}
	r, sessions := newTestRouter(t, map[string]soc.Provider{"github": p}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/github/callback?state=s&code=c", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, helpers.FallbackSuccessPath, w.Header().Get("Location"))

	// El user queda en sesión bajo la cookie emitida.
	cookie := w.Result().Cookies()[0]
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	sess := sessions.Session(httptest.NewRecorder(), req2)

	stored, ok := sess.Get(soc.SessionUserKey)
	require.True(t, ok)
	require.Contains(t, stored, `"id":"42"`)

	provider, ok := sess.Get(soc.SessionProviderKey)
	require.True(t, ok)
	require.Equal(t, "github", provider)
}

func TestCallback_IdPErrorShortCircuits(t *testing.T) {
	p := &stubProvider{name: "google", user: &soc.User{ID: "1"}}
	r, sessions := newTestRouter(t, map[string]soc.Provider{"google": p}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/callback?error=access_denied&error_description=user+denied", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, helpers.FallbackErrorPath, w.Header().Get("Location"))

	cookie := w.Result().Cookies()[0]
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	sess := sessions.Session(httptest.NewRecorder(), req2)

	msg, ok := sess.Get(soc.SessionErrorKey)
	require.True(t, ok)
	// Sanitizado: nunca el detalle crudo del IdP.
	require.NotContains(t, msg, "access_denied")
}

func TestCallback_FlowErrorRedirectsToErrorPath(t *testing.T) {
	p := &stubProvider{name: "google", err: soc.ErrInvalidState}
	r, _ := newTestRouter(t, map[string]soc.Provider{"google": p}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/callback?state=bad&code=c", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, helpers.FallbackErrorPath, w.Header().Get("Location"))
}

func TestCallback_PanicRoutesToErrorRedirect(t *testing.T) {
	p := &stubProvider{name: "google", panics: true}
	r, sessions := newTestRouter(t, map[string]soc.Provider{"google": p}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/callback?state=s&code=c", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, helpers.FallbackErrorPath, w.Header().Get("Location"))

	cookie := w.Result().Cookies()[0]
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	sess := sessions.Session(httptest.NewRecorder(), req2)

	msg, ok := sess.Get(soc.SessionErrorKey)
	require.True(t, ok)
	require.Equal(t, "Login failed", msg)
}

func TestCallback_UnsupportedProviderIs404(t *testing.T) {
	r, _ := newTestRouter(t, map[string]soc.Provider{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/myspace/callback?state=s&code=c", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "unsupported_provider")
}

func TestCallback_NextTargetValidated(t *testing.T) {
	p := &stubProvider{name: "github", user: &soc.User{ID: "42"}}
	r, _ := newTestRouter(t, map[string]soc.Provider{"github": p}, []string{"app.example.com"})

	// Arranque guardando un next malicioso.
	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/auth/socialite/github/redirect?next=//evil.example.net/phish", nil)
	r.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusFound, w1.Code)
	cookie := w1.Result().Cookies()[0]

	// Callback: el next inválido colapsa al fallback.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/auth/socialite/github/callback?state=s&code=c", nil)
	req2.AddCookie(cookie)
	r.ServeHTTP(w2, req2)

	require.Equal(t, http.StatusFound, w2.Code)
	require.Equal(t, helpers.FallbackSuccessPath, w2.Header().Get("Location"))
}

func TestCallback_AllowedNextSurvives(t *testing.T) {
	p := &stubProvider{name: "github", user: &soc.User{ID: "42"}}
	r, _ := newTestRouter(t, map[string]soc.Provider{"github": p}, []string{"app.example.com"})

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/auth/socialite/github/redirect?next=https://app.example.com/home", nil)
	r.ServeHTTP(w1, req1)
	cookie := w1.Result().Cookies()[0]

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/auth/socialite/github/callback?state=s&code=c", nil)
	req2.AddCookie(cookie)
	r.ServeHTTP(w2, req2)

	require.Equal(t, http.StatusFound, w2.Code)
	require.Equal(t, "https://app.example.com/home", w2.Header().Get("Location"))
}

func TestCallback_ErrorNextValidatedIndependently(t *testing.T) {
	p := &stubProvider{name: "google", userErr: soc.ErrInvalidState}
	r, _ := newTestRouter(t, map[string]soc.Provider{"google": p}, []string{"app.example.com"})

	// Un error_next permitido sobrevive; uno malicioso colapsa al fallback.
	for _, tc := range []struct {
		errNext string
		want    string
	}{
		{"https://app.example.com/login-failed", "https://app.example.com/login-failed"},
		{"//evil.example.net/phish", helpers.FallbackErrorPath},
	} {
		w1 := httptest.NewRecorder()
		req1 := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/redirect?error_next="+url.QueryEscape(tc.errNext), nil)
		r.ServeHTTP(w1, req1)
		cookie := w1.Result().Cookies()[0]

		w2 := httptest.NewRecorder()
		req2 := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/callback?state=bad&code=c", nil)
		req2.AddCookie(cookie)
		r.ServeHTTP(w2, req2)

		require.Equal(t, http.StatusFound, w2.Code)
		require.Equal(t, tc.want, w2.Header().Get("Location"))
	}
}

func TestRedirect_UnsupportedProviderIs404(t *testing.T) {
	r, _ := newTestRouter(t, map[string]soc.Provider{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/myspace/redirect", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirect_SendsProviderLocation(t *testing.T) {
	p := &stubProvider{name: "google", user: &soc.User{ID: "1"}}
	r, _ := newTestRouter(t, map[string]soc.Provider{"google": p}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/redirect", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Contains(t, w.Header().Get("Location"), "provider.example.com/authorize")
}
