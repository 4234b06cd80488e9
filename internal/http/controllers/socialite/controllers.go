// Package socialite contains controllers for the social login endpoints.
package socialite

import (
	svc "github.com/dropDatabas3/socialite/internal/http/services/socialite"
	"github.com/dropDatabas3/socialite/internal/session"
)

// SessionNextKey guarda el destino post-login pedido por el cliente.
const SessionNextKey = "socialite_next"

// SessionErrorNextKey guarda el destino pedido para el caso de error.
const SessionErrorNextKey = "socialite_error_next"

// Controllers agrupa los controllers del dominio socialite.
type Controllers struct {
	Redirect  *RedirectController
	Callback  *CallbackController
	Providers *ProvidersController
}

// Deps son las dependencias compartidas de los controllers.
type Deps struct {
	Service  *svc.Service
	Sessions *session.Manager

	// AllowedRedirectHosts hosts absolutos permitidos como destino post-login.
	AllowedRedirectHosts []string
}

// NewControllers creates the socialite controllers aggregator.
func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Redirect:  NewRedirectController(d),
		Callback:  NewCallbackController(d),
		Providers: NewProvidersController(d.Service),
	}
}
