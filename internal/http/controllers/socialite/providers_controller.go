package socialite

import (
	"encoding/json"
	"net/http"
	"sort"

	svc "github.com/dropDatabas3/socialite/internal/http/services/socialite"
)

// ProvidersController lists the resolvable providers.
type ProvidersController struct {
	service *svc.Service
}

// NewProvidersController creates a new ProvidersController.
func NewProvidersController(service *svc.Service) *ProvidersController {
	return &ProvidersController{service: service}
}

// List handles GET /auth/socialite/providers
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	names := c.service.Names()
	sort.Strings(names)
	if names == nil {
		names = []string{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]any{"providers": names})
}
