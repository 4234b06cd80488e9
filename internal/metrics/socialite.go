package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Social-login Prometheus metrics. Defined in a standalone package to avoid
// import cycles between the flow engine and HTTP packages.

var (
	LoginStarts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_login_starts_total",
		Help: "Redirecciones iniciadas hacia el provider",
	}, []string{"provider"})

	LoginCompletions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_login_completions_total",
		Help: "Callbacks completados con usuario normalizado",
	}, []string{"provider"})

	LoginFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_login_failures_total",
		Help: "Callbacks fallidos por provider y etapa (state, code, exchange, fetch, idp)",
	}, []string{"provider", "stage"})

	TokenRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialite_token_refreshes_total",
		Help: "Refresh grants ejecutados por provider y resultado (ok, error)",
	}, []string{"provider", "result"})

	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialite_upstream_latency_ms",
		Help:    "Latencia de llamadas al provider en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"provider", "op"})
)

// Register registers the social-login metrics on the given registry (or
// default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		LoginStarts, LoginCompletions, LoginFailures, TokenRefreshes, UpstreamLatency,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
