package socialite

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/socialite/internal/http/helpers"
	svc "github.com/dropDatabas3/socialite/internal/http/services/socialite"
	"github.com/dropDatabas3/socialite/internal/metrics"
	"github.com/dropDatabas3/socialite/internal/observability/logger"
	"github.com/dropDatabas3/socialite/internal/session"
	soc "github.com/dropDatabas3/socialite/internal/socialite"
)

// RedirectController handles the login start endpoint.
type RedirectController struct {
	service  *svc.Service
	sessions *session.Manager
}

// NewRedirectController creates a new RedirectController.
func NewRedirectController(d Deps) *RedirectController {
	return &RedirectController{service: d.Service, sessions: d.Sessions}
}

// Redirect handles GET /auth/socialite/{provider}/redirect
func (c *RedirectController) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RedirectController.Redirect"))

	provider := chi.URLParam(r, "provider")
	if provider == "" {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("missing provider"))
		return
	}

	sess := c.sessions.Session(w, r)

	// Recordar los destinos post-login pedidos; se validan recién al usarlos.
	if next := strings.TrimSpace(r.URL.Query().Get("next")); next != "" {
		sess.Set(SessionNextKey, next)
	}
	if errNext := strings.TrimSpace(r.URL.Query().Get("error_next")); errNext != "" {
		sess.Set(SessionErrorNextKey, errNext)
	}

	target, err := c.service.RedirectURL(ctx, provider, sess)
	if err != nil {
		var unsupported *soc.UnsupportedProviderError
		if errors.As(err, &unsupported) {
			log.Warn("unsupported provider", logger.Provider(provider))
			helpers.WriteError(w, helpers.ErrUnsupportedProvider.WithDetail(unsupported.Error()))
			return
		}
		log.Error("redirect url build failed", logger.Provider(provider), logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}

	metrics.LoginStarts.WithLabelValues(provider).Inc()
	http.Redirect(w, r, target, http.StatusFound)
}
