package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/jrsteele09/go-oauth-authorizer/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DefaultAssertionLifetime is used when AssertionClaims.Lifetime is zero.
const DefaultAssertionLifetime = 5 * time.Minute

var (
	ErrMissingIssuer   = errors.New("assertion issuer is required")
	ErrMissingAudience = errors.New("assertion audience is required")
)

// AssertionClaims describes the JWT sent with the jwt-bearer grant (RFC 7523 section 3).
type AssertionClaims struct {
	// Issuer is the "iss" claim, typically the client_id.
	Issuer string
	// Subject is the "sub" claim. Defaults to Issuer.
	Subject string
	// Audience is the "aud" claim, typically the token endpoint URL.
	Audience string
	// Lifetime sets "exp" relative to "iat".
	Lifetime time.Duration
	// Extra claims are merged in but cannot replace the registered ones above.
	Extra map[string]any
}

// Creator signs jwt-bearer assertions
type Creator struct {
	signer keys.Signer
}

// NewCreator creates a new assertion creator
func NewCreator(signer keys.Signer) *Creator {
	return &Creator{
		signer: signer,
	}
}

// CreateAssertion creates a signed assertion for the jwt-bearer grant
func (c *Creator) CreateAssertion(ac AssertionClaims) (string, error) {
	if ac.Issuer == "" {
		return "", ErrMissingIssuer
	}
	if ac.Audience == "" {
		return "", ErrMissingAudience
	}
	subject := ac.Subject
	if subject == "" {
		subject = ac.Issuer
	}
	lifetime := ac.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultAssertionLifetime
	}

	claims := jwtlib.MapClaims{}
	for k, v := range ac.Extra {
		claims[k] = v
	}

	now := NowTimeFunc()
	claims["iss"] = ac.Issuer
	claims["sub"] = subject
	claims["aud"] = ac.Audience
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(lifetime).Unix()
	// The identifier must not be reused for another assertion (RFC 7519 section 4.1.7)
	claims["jti"] = "assertion-" + xid.New().String()

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
