package socialite

import "context"

// LinkedIn implements the LinkedIn OpenID Connect provider. The userinfo
// payload identifies the member by the OIDC "sub" claim and carries no
// username, so Nickname is always nil.
type LinkedIn struct {
	*flow
}

// NewLinkedIn creates a LinkedIn provider.
func NewLinkedIn(cfg ProviderConfig, deps Deps) *LinkedIn {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"openid", "profile", "email"}
	}
	l := &LinkedIn{flow: newFlow("linkedin", cfg, deps.HTTPClient, endpoints{
		auth:  "https://www.linkedin.com/oauth/v2/authorization",
		token: "https://www.linkedin.com/oauth/v2/accessToken",
		user:  "https://api.linkedin.com/v2/userinfo",
	})}
	l.flow.mapUser = l.mapUser
	l.flow.setSigner(deps.StateSigner)
	return l
}

func (l *LinkedIn) mapUser(raw map[string]any) *User {
	u := &User{
		ID:         coerceString(raw["sub"]),
		Name:       stringAttr(raw, "name"),
		Email:      stringAttr(raw, "email"),
		Nickname:   nil,
		Attributes: raw,
	}
	if s, ok := raw["picture"].(string); ok {
		u.Avatar = &s
	}
	return u
}

// RefreshToken performs the refresh grant. LinkedIn only issues refresh
// tokens to approved partner programs; the grant itself is standard.
func (l *LinkedIn) RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	return l.flow.refreshToken(ctx, refreshToken)
}
