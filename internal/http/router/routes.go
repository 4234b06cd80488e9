// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ctrl "github.com/dropDatabas3/socialite/internal/http/controllers/socialite"
	mw "github.com/dropDatabas3/socialite/internal/http/middlewares"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Controllers *ctrl.Controllers

	// MetricsEnabled expone /metrics con el registry default de Prometheus.
	MetricsEnabled bool
}

// New construye el router con todas las rutas registradas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	c := deps.Controllers

	r.Route("/auth/socialite", func(r chi.Router) {
		r.Get("/providers", c.Providers.List)
		r.Get("/{provider}/redirect", c.Redirect.Redirect)
		r.Get("/{provider}/callback", c.Callback.Callback)

		// Landings default post-login; un frontend real las reemplaza.
		r.Get("/success", landing(true))
		r.Get("/error", landing(false))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return mw.Chain(r,
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
		mw.WithLogging(),
	)
}

func landing(ok bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": ok})
	}
}
