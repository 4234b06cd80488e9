package socialite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFacebook_AvatarPromotion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "987",
			"name": "Mark Tester",
			"email": "mark@example.com",
			"picture": {"data": {"url": "https://cdn.example.com/pic.jpg", "height": 50}}
		}`))
	}))
	defer srv.Close()

	f := NewFacebook(ProviderConfig{ClientID: "fb", ClientSecret: "s"}, Deps{})
	f.flow.ep.user = srv.URL

	u, err := f.UserFromToken(context.Background(), "fb-token")
	if err != nil {
		t.Fatalf("UserFromToken err: %v", err)
	}
	if u.Avatar == nil || *u.Avatar != "https://cdn.example.com/pic.jpg" {
		t.Errorf("Avatar = %v, want promoted picture.data.url", u.Avatar)
	}
	// The promoted field also lands in the raw attributes.
	if got := u.GetAttribute("avatar", nil); got != "https://cdn.example.com/pic.jpg" {
		t.Errorf("attributes[avatar] = %v", got)
	}
	if u.Nickname == nil || *u.Nickname != "Mark Tester" {
		t.Errorf("Nickname = %v, want the display name", u.Nickname)
	}
}

func TestFacebook_NoPictureNoAvatar(t *testing.T) {
	f := NewFacebook(ProviderConfig{}, Deps{})

	raw, _ := decodeJSONMap([]byte(`{"id":"987","name":"Mark"}`))
	promoteFacebookAvatar(raw)
	u := f.mapUser(raw)

	if u.Avatar != nil {
		t.Errorf("Avatar = %v, want nil", u.Avatar)
	}
}

func TestTwitter_DataNestedPayload(t *testing.T) {
	tw := NewTwitter(ProviderConfig{}, Deps{})

	raw, _ := decodeJSONMap([]byte(`{
		"data": {
			"id": "2244994945",
			"name": "X Dev",
			"username": "xdevelopers",
			"profile_image_url": "https://pbs.example.com/img.png"
		}
	}`))
	u := tw.mapUser(raw)

	if u.ID != "2244994945" {
		t.Errorf("ID = %q", u.ID)
	}
	if u.Name != "X Dev" {
		t.Errorf("Name = %q", u.Name)
	}
	if u.Email != "" {
		t.Errorf("Email = %q, must always be empty for twitter", u.Email)
	}
	if u.Nickname == nil || *u.Nickname != "xdevelopers" {
		t.Errorf("Nickname = %v", u.Nickname)
	}
	if u.Avatar == nil || *u.Avatar != "https://pbs.example.com/img.png" {
		t.Errorf("Avatar = %v", u.Avatar)
	}
}

func TestTwitter_DefaultScopes(t *testing.T) {
	tw := NewTwitter(ProviderConfig{}, Deps{})
	got := tw.flow.cfg.Scopes
	if len(got) != 2 || got[0] != "tweet.read" || got[1] != "users.read" {
		t.Errorf("Scopes = %v", got)
	}
}

func TestLinkedIn_SubIDAndNilNickname(t *testing.T) {
	li := NewLinkedIn(ProviderConfig{}, Deps{})

	raw, _ := decodeJSONMap([]byte(`{
		"sub": "9XyZ_abc",
		"name": "Linda Professional",
		"email": "linda@example.com",
		"picture": "https://media.example.com/photo.jpg"
	}`))
	u := li.mapUser(raw)

	if u.ID != "9XyZ_abc" {
		t.Errorf("ID = %q, want the sub claim", u.ID)
	}
	if u.Nickname != nil {
		t.Errorf("Nickname = %v, linkedin has no username concept", u.Nickname)
	}
	if u.Avatar == nil || *u.Avatar != "https://media.example.com/photo.jpg" {
		t.Errorf("Avatar = %v", u.Avatar)
	}
	if u.Email != "linda@example.com" {
		t.Errorf("Email = %q", u.Email)
	}
}

func TestProviderNamesAndRefreshSupport(t *testing.T) {
	deps := Deps{}
	providers := []Provider{
		NewGoogle(ProviderConfig{}, deps),
		NewFacebook(ProviderConfig{}, deps),
		NewGitHub(ProviderConfig{}, deps),
		NewTwitter(ProviderConfig{}, deps),
		NewLinkedIn(ProviderConfig{}, deps),
	}
	wantNames := []string{"google", "facebook", "github", "twitter", "linkedin"}
	for i, p := range providers {
		if p.Name() != wantNames[i] {
			t.Errorf("Name() = %q, want %q", p.Name(), wantNames[i])
		}
	}

	// GitHub's classic OAuth flow issues no refresh tokens.
	if _, ok := Provider(NewGitHub(ProviderConfig{}, deps)).(RefreshableProvider); ok {
		t.Error("github must not implement RefreshableProvider")
	}
	for _, p := range []Provider{providers[0], providers[1], providers[3], providers[4]} {
		if _, ok := p.(RefreshableProvider); !ok {
			t.Errorf("%s should implement RefreshableProvider", p.Name())
		}
	}
}
