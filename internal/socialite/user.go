package socialite

// User is the normalized identity record returned after a completed login.
// It is a value object: built once per successful flow, never mutated.
type User struct {
	// ID is the provider-scoped user id, always coerced to string form.
	ID string `json:"id"`

	// Name is the display name. May be empty.
	Name string `json:"name"`

	// Email may be empty: not all providers supply it (Twitter never does).
	Email string `json:"email"`

	// Avatar is the profile picture URL, nil when the provider has none.
	Avatar *string `json:"avatar"`

	// Nickname is the provider username/handle, nil when unsupported.
	Nickname *string `json:"nickname"`

	// Attributes retains the complete raw payload as received (including
	// promoted fields) for caller extensibility.
	Attributes map[string]any `json:"attributes"`
}

// GetAttribute returns a raw attribute value, or def when absent.
func (u *User) GetAttribute(key string, def any) any {
	if v, ok := u.Attributes[key]; ok {
		return v
	}
	return def
}

// ToArray converts the user to a plain map, mirror of FromArray.
func (u *User) ToArray() map[string]any {
	var avatar, nickname any
	if u.Avatar != nil {
		avatar = *u.Avatar
	}
	if u.Nickname != nil {
		nickname = *u.Nickname
	}
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"avatar":     avatar,
		"nickname":   nickname,
		"attributes": u.Attributes,
	}
}

// FromArray reconstructs a User from a ToArray map.
func FromArray(m map[string]any) *User {
	u := &User{
		ID:    stringAttr(m, "id"),
		Name:  stringAttr(m, "name"),
		Email: stringAttr(m, "email"),
	}
	if s, ok := m["avatar"].(string); ok {
		u.Avatar = &s
	}
	if s, ok := m["nickname"].(string); ok {
		u.Nickname = &s
	}
	if attrs, ok := m["attributes"].(map[string]any); ok {
		u.Attributes = attrs
	}
	return u
}

// stringAttr reads m[key] as string, empty when absent or not a string.
func stringAttr(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
