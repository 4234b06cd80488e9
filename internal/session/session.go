package session

import (
	"net/http"
	"time"

	tokens "github.com/dropDatabas3/socialite/internal/security/token"
)

// DefaultCookieName es el nombre de la cookie sid.
const DefaultCookieName = "socialite_sid"

// Manager ata sesiones de browser (cookie sid) a un backend Store.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager crea un manager de sesiones.
// store puede ser nil: las sesiones resultantes degradan a no-op en escritura
// y "ausente" en lectura, nunca panic.
func NewManager(store Store, cookieName string, ttl time.Duration, secure bool) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{store: store, cookieName: cookieName, ttl: ttl, secure: secure}
}

// Session resuelve la sesión del request, creando sid + cookie si no existe.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) *Session {
	sid := ""
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		sid = c.Value
	}
	if sid == "" {
		sid, _ = tokens.GenerateOpaqueToken(24)
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    sid,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	// Las claves del backend llevan el hash del sid, no el valor de la
	// cookie.
	return &Session{store: m.store, prefix: "sess:" + tokens.SHA256Base64URL(sid) + ":", ttl: m.ttl}
}

// Session es el storage de una sesión concreta.
// Implementa el contrato que consume el flujo OAuth (Get/Set/Remove).
type Session struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// Get obtiene un valor de la sesión.
func (s *Session) Get(key string) (string, bool) {
	if s == nil || s.store == nil {
		return "", false
	}
	return s.store.Get(s.prefix + key)
}

// Set guarda un valor en la sesión.
func (s *Session) Set(key, value string) {
	if s == nil || s.store == nil {
		return
	}
	s.store.Set(s.prefix+key, value, s.ttl)
}

// Remove elimina un valor de la sesión.
func (s *Session) Remove(key string) {
	if s == nil || s.store == nil {
		return
	}
	s.store.Delete(s.prefix + key)
}
