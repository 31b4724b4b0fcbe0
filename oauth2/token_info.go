package oauth2

import "time"

// Defaults applied when the authorization server omits a field.
const (
	DefaultTokenType = "Bearer"
	DefaultExpiresIn = 3600
)

// TokenInfo is the canonical result of a successful authorization.
// Every grant type, and both JSON and form encoded server responses, end up in this shape.
type TokenInfo struct {
	// AccessToken is the token used to access protected resources.
	// Always present on success.
	AccessToken string `json:"accessToken"`

	// TokenType tells the caller how to present the access token.
	// Default: "Bearer" when the server omits token_type
	TokenType string `json:"tokenType"`

	// RefreshToken is returned by servers that issue long lived grants.
	RefreshToken string `json:"refreshToken,omitempty"`

	// IDToken is the OpenID Connect ID token (implicit/OIDC flows).
	IDToken string `json:"idToken,omitempty"`

	// ExpiresIn is the lifetime of the access token in seconds.
	// Defaulted to 3600 with ExpiresAssumed set when missing or unparseable.
	ExpiresIn int64 `json:"expiresIn"`

	// ExpiresAssumed is true when ExpiresIn was not supplied by the server.
	ExpiresAssumed bool `json:"expiresAssumed"`

	// ExpiresAt is the absolute expiry computed at exchange time (now + ExpiresIn).
	ExpiresAt time.Time `json:"expiresAt"`

	// Scope is the granted scope list. It echoes the requested scopes when the
	// server does not report any, and is empty (never nil) otherwise.
	Scope []string `json:"scope"`

	// State equals the state of the authorization request.
	State string `json:"state"`

	// Extra holds every other server supplied field under its camel cased name.
	Extra map[string]any `json:"extra,omitempty"`
}

// Expired reports whether the token has expired at the given time.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
