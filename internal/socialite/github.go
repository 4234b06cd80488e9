package socialite

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/dropDatabas3/socialite/internal/observability/logger"
)

const githubEmailsEndpoint = "https://api.github.com/user/emails"

// GitHub implements the GitHub OAuth 2.0 provider. GitHub deviates from the
// default shape in two ways:
//   - the token endpoint returns form-encoded data unless the request sends
//     Accept: application/json, and signals failures inside 200 bodies
//   - users with private email settings get no email in /user, requiring a
//     secondary /user/emails fetch
type GitHub struct {
	*flow
	emailsEndpoint string
}

// NewGitHub creates a GitHub provider.
func NewGitHub(cfg ProviderConfig, deps Deps) *GitHub {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"user:email"}
	}
	g := &GitHub{
		flow: newFlow("github", cfg, deps.HTTPClient, endpoints{
			auth:  "https://github.com/login/oauth/authorize",
			token: "https://github.com/login/oauth/access_token",
			user:  "https://api.github.com/user",
		}),
		emailsEndpoint: githubEmailsEndpoint,
	}
	g.flow.mapUser = g.mapUser
	g.flow.setSigner(deps.StateSigner)
	g.flow.exchange = g.exchangeCode

	base := g.flow.fetchRaw
	g.flow.fetchRaw = func(ctx context.Context, accessToken string) (map[string]any, error) {
		raw, err := base(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		if stringAttr(raw, "email") == "" {
			if email := g.fetchPrimaryEmail(ctx, accessToken); email != "" {
				raw["email"] = email
			}
		}
		return raw, nil
	}
	return g
}

// exchangeCode is the GitHub token exchange. It must send the explicit JSON
// accept header and inspect 200 bodies for an embedded error field.
func (g *GitHub) exchangeCode(ctx context.Context, code string) (*TokenBundle, error) {
	form := url.Values{}
	form.Set("client_id", g.cfg.ClientID)
	form.Set("client_secret", g.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", g.cfg.RedirectURL)
	form.Set("grant_type", "authorization_code")

	status, body, err := g.postForm(ctx, g.ep.token, form, true)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		g.logUpstream(ctx, "token exchange failed", status, body)
		return nil, tokenExchangeStatusError(status)
	}
	return parseTokenBundle(ctx, g.flow, body)
}

// githubEmail is one entry of the /user/emails payload.
type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// fetchPrimaryEmail walks the emails endpoint fallback ladder:
// primary+verified, then any verified, then the first listed. Empty only
// when the list itself is empty or the fetch fails.
func (g *GitHub) fetchPrimaryEmail(ctx context.Context, accessToken string) string {
	status, body, err := g.getJSON(ctx, g.emailsEndpoint, accessToken)
	if err != nil || status/100 != 2 {
		logger.From(ctx).Warn("github emails fetch failed",
			logger.Component("socialite.github"),
			logger.UpstreamStatus(status),
		)
		return ""
	}

	var emails []githubEmail
	if err := json.Unmarshal(body, &emails); err != nil {
		return ""
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	if len(emails) > 0 {
		return emails[0].Email
	}
	return ""
}

func (g *GitHub) mapUser(raw map[string]any) *User {
	name := stringAttr(raw, "name")
	if name == "" {
		name = stringAttr(raw, "login")
	}
	u := &User{
		ID:         coerceString(raw["id"]),
		Name:       name,
		Email:      stringAttr(raw, "email"),
		Attributes: raw,
	}
	if s, ok := raw["avatar_url"].(string); ok {
		u.Avatar = &s
	}
	if s, ok := raw["login"].(string); ok && s != "" {
		u.Nickname = &s
	}
	return u
}
