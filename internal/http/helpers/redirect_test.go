package helpers

import "testing"

func TestSafeRedirect(t *testing.T) {
	allowed := []string{"app.example.com", "admin.example.com"}

	cases := []struct {
		name   string
		target string
		want   string
	}{
		{"empty falls back", "", FallbackSuccessPath},
		{"root relative passes", "/dashboard", "/dashboard"},
		{"root relative with query passes", "/dashboard?tab=2", "/dashboard?tab=2"},
		{"protocol relative rejected", "//evil.example.net/phish", FallbackSuccessPath},
		{"backslash protocol relative rejected", `/\evil.example.net/phish`, FallbackSuccessPath},
		{"allowed host passes", "https://app.example.com/home", "https://app.example.com/home"},
		{"allowed host case-insensitive", "https://APP.example.COM/home", "https://APP.example.COM/home"},
		{"unknown host rejected", "https://evil.example.net/", FallbackSuccessPath},
		{"schemeless host rejected", "evil.example.net/phish", FallbackSuccessPath},
		{"javascript scheme rejected", "javascript:alert(1)", FallbackSuccessPath},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeRedirect(tc.target, allowed, FallbackSuccessPath); got != tc.want {
				t.Errorf("SafeRedirect(%q) = %q, want %q", tc.target, got, tc.want)
			}
		})
	}
}

func TestSafeRedirect_EmptyAllowListRejectsAllAbsolute(t *testing.T) {
	got := SafeRedirect("https://app.example.com/home", nil, FallbackErrorPath)
	if got != FallbackErrorPath {
		t.Errorf("got %q, want fallback with empty allow-list", got)
	}
}

func TestHTTPError_WithDetail(t *testing.T) {
	e := ErrBadRequest.WithDetail("missing provider")
	if e == ErrBadRequest {
		t.Fatal("WithDetail must copy, not mutate the shared sentinel")
	}
	if e.Error() != "Bad request: missing provider" {
		t.Errorf("Error() = %q", e.Error())
	}
	if ErrBadRequest.Detail != "" {
		t.Error("sentinel mutated")
	}
}
