package socialite

import "context"

// Facebook implements the Facebook Graph OAuth 2.0 provider. The Graph API
// nests the profile picture under picture.data.url; the fetch step promotes
// it to a flat avatar field before mapping.
type Facebook struct {
	*flow
}

// NewFacebook creates a Facebook provider.
func NewFacebook(cfg ProviderConfig, deps Deps) *Facebook {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"email", "public_profile"}
	}
	f := &Facebook{flow: newFlow("facebook", cfg, deps.HTTPClient, endpoints{
		auth:  "https://www.facebook.com/v18.0/dialog/oauth",
		token: "https://graph.facebook.com/v18.0/oauth/access_token",
		user:  "https://graph.facebook.com/v18.0/me?fields=id,name,email,picture",
	})}
	f.flow.mapUser = f.mapUser
	f.flow.setSigner(deps.StateSigner)

	base := f.flow.fetchRaw
	f.flow.fetchRaw = func(ctx context.Context, accessToken string) (map[string]any, error) {
		raw, err := base(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		promoteFacebookAvatar(raw)
		return raw, nil
	}
	return f
}

// promoteFacebookAvatar lifts picture.data.url to raw["avatar"].
func promoteFacebookAvatar(raw map[string]any) {
	pic, ok := raw["picture"].(map[string]any)
	if !ok {
		return
	}
	data, ok := pic["data"].(map[string]any)
	if !ok {
		return
	}
	if u, ok := data["url"].(string); ok && u != "" {
		raw["avatar"] = u
	}
}

func (f *Facebook) mapUser(raw map[string]any) *User {
	u := &User{
		ID:         coerceString(raw["id"]),
		Name:       stringAttr(raw, "name"),
		Email:      stringAttr(raw, "email"),
		Attributes: raw,
	}
	if s, ok := raw["avatar"].(string); ok {
		u.Avatar = &s
	}
	if s, ok := raw["name"].(string); ok && s != "" {
		u.Nickname = &s
	}
	return u
}

// RefreshToken performs the refresh grant (long-lived token renewal).
func (f *Facebook) RefreshToken(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	return f.flow.refreshToken(ctx, refreshToken)
}
