package socialite

import "context"

// Google implements the Google OAuth 2.0 provider. Google follows the
// default flow shape end to end; only the mapping is provider-specific.
type Google struct {
	*flow
}

// NewGoogle creates a Google provider.
func NewGoogle(cfg ProviderConfig, deps Deps) *Google {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "profile", "email"}
	}
	g := &Google{flow: newFlow("google", cfg, deps.HTTPClient, endpoints{
		auth:  "https://accounts.google.com/o/oauth2/v2/auth",
		token: "https://oauth2.googleapis.com/token",
		user:  "https://www.googleapis.com/oauth2/v2/userinfo",
	})}
	g.flow.mapUser = g.mapUser
	g.flow.setSigner(deps.StateSigner)
	return g
}

func (g *Google) mapUser(raw map[string]any) *User {
	u := &User{
		ID:         coerceString(raw["id"]),
		Name:       stringAttr(raw, "name"),
		Email:      stringAttr(raw, "email"),
		Attributes: raw,
	}
	if s, ok := raw["picture"].(string); ok {
		u.Avatar = &s
	}
	if s, ok := raw["given_name"].(string); ok {
		u.Nickname = &s
	}
	return u
}

// RefreshToken performs the refresh grant; Google rotates access tokens and
// may return a new expiry.
func (g *Google) RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	return g.flow.refreshToken(ctx, refreshToken)
}
