package socialite

import "context"

// Twitter implements the Twitter/X API v2 OAuth 2.0 provider. The v2 user
// payload nests the profile under a data envelope, and no email is ever
// provided by the OAuth 2.0 flow.
type Twitter struct {
	*flow
}

// NewTwitter creates a Twitter provider.
func NewTwitter(cfg ProviderConfig, deps Deps) *Twitter {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"tweet.read", "users.read"}
	}
	t := &Twitter{flow: newFlow("twitter", cfg, deps.HTTPClient, endpoints{
		auth:  "https://twitter.com/i/oauth2/authorize",
		token: "https://api.twitter.com/2/oauth2/token",
		user:  "https://api.twitter.com/2/users/me?user.fields=id,name,username,profile_image_url",
	})}
	t.flow.mapUser = t.mapUser
	t.flow.setSigner(deps.StateSigner)
	return t
}

func (t *Twitter) mapUser(raw map[string]any) *User {
	data, ok := raw["data"].(map[string]any)
	if !ok {
		data = raw
	}
	u := &User{
		ID:         coerceString(data["id"]),
		Name:       stringAttr(data, "name"),
		Email:      "", // never provided by Twitter OAuth 2.0
		Attributes: raw,
	}
	if s, ok := data["profile_image_url"].(string); ok {
		u.Avatar = &s
	}
	if s, ok := data["username"].(string); ok && s != "" {
		u.Nickname = &s
	}
	return u
}

// RefreshToken performs the refresh grant (requires the offline.access scope).
func (t *Twitter) RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	return t.flow.refreshToken(ctx, refreshToken)
}
