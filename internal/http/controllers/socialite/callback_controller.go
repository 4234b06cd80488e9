package socialite

import (
	"encoding/json"
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

// CallbackController handles the OAuth callback endpoint.
type CallbackController struct {
	service      *svc.Service
	sessions     *session.Manager
	allowedHosts []string
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(d Deps) *CallbackController {
	return &CallbackController{
		service:      d.Service,
		sessions:     d.Sessions,
		allowedHosts: d.AllowedRedirectHosts,
	}
}

// Callback handles GET /auth/socialite/{provider}/callback
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	provider := chi.URLParam(r, "provider")
	if provider == "" {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("missing provider"))
		return
	}

	sess := c.sessions.Session(w, r)
	q := r.URL.Query()

	// Cualquier falla inesperada durante el callback, pánico incluido,
	// termina en el redirect de error, no en un 500 crudo.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("callback panicked",
				logger.Provider(provider),
				logger.Any("panic", rec),
			)
			metrics.LoginFailures.WithLabelValues(provider, "internal").Inc()
			c.failLogin(w, r, sess, "Login failed")
		}
	}()

	// El IdP puede devolver un error en lugar de un code; cortar acá antes
	// de tocar el state.
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("identity provider returned error",
			logger.Provider(provider),
			logger.String("idp_error", idpError),
			logger.String("idp_description", strings.TrimSpace(q.Get("error_description"))),
		)
		metrics.LoginFailures.WithLabelValues(provider, "idp").Inc()
		c.failLogin(w, r, sess, "The identity provider rejected the login")
		return
	}

	result, err := c.service.Callback(ctx, provider, sess, q)
	if err != nil {
		stage, message := classify(err)
		log.Warn("callback failed",
			logger.Provider(provider),
			logger.String("stage", stage),
			logger.Err(err),
		)
		metrics.LoginFailures.WithLabelValues(provider, stage).Inc()

		var unsupported *soc.UnsupportedProviderError
		if errors.As(err, &unsupported) {
			helpers.WriteError(w, helpers.ErrUnsupportedProvider.WithDetail(unsupported.Error()))
			return
		}
		c.failLogin(w, r, sess, message)
		return
	}

	if payload, err := json.Marshal(result.User.ToArray()); err == nil {
		sess.Set(soc.SessionUserKey, string(payload))
	}
	sess.Set(soc.SessionProviderKey, provider)
	sess.Remove(soc.SessionErrorKey)

	metrics.LoginCompletions.WithLabelValues(provider).Inc()

	next, _ := sess.Get(SessionNextKey)
	sess.Remove(SessionNextKey)
	sess.Remove(SessionErrorNextKey)
	target := helpers.SafeRedirect(next, c.allowedHosts, helpers.FallbackSuccessPath)
	http.Redirect(w, r, target, http.StatusFound)
}

// failLogin deja el mensaje sanitizado en sesión y redirige al destino de
// error validado.
func (c *CallbackController) failLogin(w http.ResponseWriter, r *http.Request, sess *session.Session, message string) {
	sess.Set(soc.SessionErrorKey, message)
	sess.Remove(SessionNextKey)
	errNext, _ := sess.Get(SessionErrorNextKey)
	sess.Remove(SessionErrorNextKey)
	target := helpers.SafeRedirect(errNext, c.allowedHosts, helpers.FallbackErrorPath)
	http.Redirect(w, r, target, http.StatusFound)
}

// classify mapea un error del flow a su etapa de métricas y a un mensaje
// apto para el usuario (nunca incluye cuerpos crudos del provider).
func classify(err error) (stage, message string) {
	var exchange *soc.TokenExchangeError
	var fetch *soc.UserDataError
	switch {
	case errors.Is(err, soc.ErrInvalidState):
		return "state", "Invalid or expired login state"
	case errors.Is(err, soc.ErrMissingCode):
		return "code", "The identity provider sent no authorization code"
	case errors.As(err, &exchange):
		return "exchange", "Could not complete the login with the identity provider"
	case errors.As(err, &fetch):
		return "fetch", "Could not fetch the user profile from the identity provider"
	default:
		return "internal", "Login failed"
	}
}
