package socialite

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	tokens "github.com/dropDatabas3/socialite/internal/security/token"
)

// StateAudience is the expected audience for stateless state tokens.
const StateAudience = "socialite-state"

// DefaultStateTTL bounds how long a minted state remains acceptable.
const DefaultStateTTL = 10 * time.Minute

// Errors for state token operations.
var (
	ErrStateTokenInvalid  = errors.New("invalid state token")
	ErrStateTokenExpired  = errors.New("state token expired")
	ErrStateTokenProvider = errors.New("state token provider mismatch")
)

// StateSigner mints and verifies CSRF state values that carry their own
// integrity, for flows that run without a server-side session.
type StateSigner interface {
	Sign(provider string) (string, error)
	Verify(provider, state string) error
}

// JWTStateSigner signs state tokens with HS256 over a shared secret.
type JWTStateSigner struct {
	Secret []byte
	TTL    time.Duration
}

// NewJWTStateSigner creates a signer with the default TTL.
func NewJWTStateSigner(secret []byte) *JWTStateSigner {
	return &JWTStateSigner{Secret: secret, TTL: DefaultStateTTL}
}

// Sign mints a state JWT bound to the given provider name.
func (s *JWTStateSigner) Sign(provider string) (string, error) {
	nonce, err := tokens.GenerateOpaqueToken(16)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	ttl := s.TTL
	if ttl == 0 {
		ttl = DefaultStateTTL
	}
	claims := jwtv5.MapClaims{
		"aud":      StateAudience,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"provider": provider,
		"nonce":    nonce,
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return tk.SignedString(s.Secret)
}

// Verify validates signature, audience, expiry and provider binding.
func (s *JWTStateSigner) Verify(provider, state string) error {
	tk, err := jwtv5.Parse(state, func(*jwtv5.Token) (any, error) {
		return s.Secret, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}))
	if err != nil || !tk.Valid {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return ErrStateTokenExpired
		}
		return ErrStateTokenInvalid
	}

	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return ErrStateTokenInvalid
	}
	if aud, _ := claims["aud"].(string); aud != StateAudience {
		return ErrStateTokenInvalid
	}
	if p, _ := claims["provider"].(string); p != provider {
		return ErrStateTokenProvider
	}
	return nil
}
