package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemory(time.Minute)

	s.Set("k", "v", 0)
	if got, ok := s.Get("k"); !ok || got != "v" {
		t.Fatalf("Get = %q,%v", got, ok)
	}

	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Fatal("key survived Delete")
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemory(time.Minute)

	s.Set("short", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get("short"); ok {
		t.Fatal("key survived its TTL")
	}
}

func TestManager_SetsSessionCookie(t *testing.T) {
	m := NewManager(NewMemory(time.Minute), "", time.Minute, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/socialite/google/redirect", nil)

	sess := m.Session(w, r)
	sess.Set("socialite_state", "abc")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != DefaultCookieName {
		t.Errorf("cookie name = %q", c.Name)
	}
	if !c.HttpOnly {
		t.Error("sid cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
}

func TestManager_SameSidSeesSameValues(t *testing.T) {
	store := NewMemory(time.Minute)
	m := NewManager(store, "", time.Minute, false)

	w1 := httptest.NewRecorder()
	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	first := m.Session(w1, r1)
	first.Set("socialite_state", "state-1")

	sid := w1.Result().Cookies()[0]

	// Segundo request del mismo browser: misma cookie, mismos valores.
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(sid)
	second := m.Session(w2, r2)

	if got, ok := second.Get("socialite_state"); !ok || got != "state-1" {
		t.Fatalf("Get = %q,%v", got, ok)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Error("existing sid must not be re-issued")
	}
}

func TestManager_DistinctSidsIsolated(t *testing.T) {
	store := NewMemory(time.Minute)
	m := NewManager(store, "", time.Minute, false)

	wa := httptest.NewRecorder()
	a := m.Session(wa, httptest.NewRequest(http.MethodGet, "/", nil))
	a.Set("socialite_state", "state-a")

	wb := httptest.NewRecorder()
	b := m.Session(wb, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, ok := b.Get("socialite_state"); ok {
		t.Fatal("sessions must not share values across sids")
	}
}

func TestSession_NilStoreIsNoop(t *testing.T) {
	m := NewManager(nil, "", time.Minute, false)

	w := httptest.NewRecorder()
	sess := m.Session(w, httptest.NewRequest(http.MethodGet, "/", nil))

	sess.Set("k", "v") // must not panic
	if _, ok := sess.Get("k"); ok {
		t.Fatal("nil store returned a value")
	}
	sess.Remove("k") // must not panic
}
