package socialite

import (
	"reflect"
	"testing"
	"time"
)

func TestUser_ToArrayFromArrayRoundTrip(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	nick := "ada"
	u := &User{
		ID:       "42",
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Avatar:   &avatar,
		Nickname: &nick,
		Attributes: map[string]any{
			"id":     "42",
			"locale": "en",
		},
	}

	got := FromArray(u.ToArray())
	if got.ID != u.ID || got.Name != u.Name || got.Email != u.Email {
		t.Errorf("scalar fields: got %+v", got)
	}
	if got.Avatar == nil || *got.Avatar != avatar {
		t.Errorf("Avatar = %v", got.Avatar)
	}
	if got.Nickname == nil || *got.Nickname != nick {
		t.Errorf("Nickname = %v", got.Nickname)
	}
	if !reflect.DeepEqual(got.Attributes, u.Attributes) {
		t.Errorf("Attributes = %v", got.Attributes)
	}
}

func TestUser_NilOptionalsSurviveRoundTrip(t *testing.T) {
	u := &User{ID: "1", Name: "N", Email: ""}

	got := FromArray(u.ToArray())
	if got.Avatar != nil {
		t.Errorf("Avatar = %v, want nil", got.Avatar)
	}
	if got.Nickname != nil {
		t.Errorf("Nickname = %v, want nil", got.Nickname)
	}
}

func TestUser_GetAttribute(t *testing.T) {
	u := &User{Attributes: map[string]any{"hd": "example.com"}}

	if got := u.GetAttribute("hd", nil); got != "example.com" {
		t.Errorf("GetAttribute(hd) = %v", got)
	}
	if got := u.GetAttribute("missing", "fallback"); got != "fallback" {
		t.Errorf("GetAttribute(missing) = %v", got)
	}
}

func TestTokenBundle_ExpiresAt(t *testing.T) {
	b := &TokenBundle{AccessToken: "at", ExpiresIn: 3600}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	at := b.ExpiresAt(now)
	if at == nil || !at.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", at)
	}

	noExpiry := &TokenBundle{AccessToken: "at"}
	if noExpiry.ExpiresAt(now) != nil {
		t.Error("zero expires_in must yield nil expiry")
	}
}
