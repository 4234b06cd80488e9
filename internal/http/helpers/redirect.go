package helpers

import (
	"net/url"
	"strings"
)

// Post-login landing paths used when no explicit target survives validation.
const (
	FallbackSuccessPath = "/auth/socialite/success"
	FallbackErrorPath   = "/auth/socialite/error"
)

// SafeRedirect validates a client-supplied redirect target against open
// redirect abuse. Root-relative paths pass as-is; protocol-relative ("//...")
// targets are rejected; absolute URLs pass only when the host is in
// allowedHosts. Anything else collapses to fallback.
func SafeRedirect(target string, allowedHosts []string, fallback string) string {
	if target == "" {
		return fallback
	}

	// Path relativo a la raíz: seguro. "//host" es protocol-relative, y los
	// browsers normalizan "/\" a "//", así que ambos quedan afuera.
	if strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") && !strings.HasPrefix(target, `/\`) {
		return target
	}

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return fallback
	}
	for _, host := range allowedHosts {
		if strings.EqualFold(u.Host, host) {
			return target
		}
	}
	return fallback
}
