package oauthmodel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
)

// reservedStateChars may not appear in a state value because they would
// break the value out of its query/fragment parameter.
const reservedStateChars = "&=#?+"

// requirement is one required field of the dispatch table.
type requirement struct {
	err   error
	value func(c *AuthorizationConfig) string
}

var (
	needsAuthorizationURI = requirement{ErrMissingAuthorizationURI, func(c *AuthorizationConfig) string { return c.AuthorizationURI }}
	needsAccessTokenURI   = requirement{ErrMissingAccessTokenURI, func(c *AuthorizationConfig) string { return c.AccessTokenURI }}
	needsRedirectURI      = requirement{ErrMissingRedirectURI, func(c *AuthorizationConfig) string { return c.RedirectURI }}
	needsClientID         = requirement{ErrMissingClientID, func(c *AuthorizationConfig) string { return c.ClientID }}
	needsUsername         = requirement{ErrMissingUsername, func(c *AuthorizationConfig) string { return c.Username }}
	needsPassword         = requirement{ErrMissingPassword, func(c *AuthorizationConfig) string { return c.Password }}
	needsDeviceCode       = requirement{ErrMissingDeviceCode, func(c *AuthorizationConfig) string { return c.DeviceCode }}
	needsAssertion        = requirement{ErrMissingAssertion, func(c *AuthorizationConfig) string { return c.Assertion }}
)

// grantRequirements is the dispatch table of required fields per grant type.
// Grants not listed here are custom grants and only need the token endpoint.
var grantRequirements = map[oauth2.GrantType][]requirement{
	oauth2.ImplicitGrant:          {needsAuthorizationURI, needsClientID, needsRedirectURI},
	oauth2.AuthorizationCodeGrant: {needsAuthorizationURI, needsAccessTokenURI, needsClientID, needsRedirectURI},
	oauth2.ClientCredentialsGrant: {needsAccessTokenURI, needsClientID},
	oauth2.PasswordGrant:          {needsAccessTokenURI, needsUsername, needsPassword},
	oauth2.DeviceCodeGrant:        {needsAccessTokenURI, needsDeviceCode},
	oauth2.JWTBearerGrant:         {needsAccessTokenURI, needsAssertion},
}

// CheckConfig performs a sanity pass over the configuration before an attempt starts.
// It never modifies the configuration.
func CheckConfig(c *AuthorizationConfig) error {
	if strings.TrimSpace(string(c.GrantType)) == "" {
		return ErrMissingGrantType
	}

	requirements, ok := grantRequirements[c.GrantType.Canonical()]
	if !ok {
		requirements = []requirement{needsAccessTokenURI}
	}
	for _, r := range requirements {
		if strings.TrimSpace(r.value(c)) == "" {
			return r.err
		}
	}

	// Check that every configured endpoint is an absolute http(s) URL
	for _, endpoint := range []struct{ name, uri string }{
		{"authorization uri", c.AuthorizationURI},
		{"access token uri", c.AccessTokenURI},
		{"redirect uri", c.RedirectURI},
	} {
		if endpoint.uri == "" {
			continue
		}
		if err := checkURL(endpoint.uri); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidURI, endpoint.name, err)
		}
	}

	if !stateValid(c.State) {
		return ErrInvalidState
	}

	if !c.DeliveryMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDeliveryMethod, c.DeliveryMethod)
	}
	return nil
}

func checkURL(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("the value has invalid scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("the value has no host")
	}
	return nil
}

func stateValid(state string) bool {
	if state == "" {
		return true
	}
	if strings.ContainsAny(state, reservedStateChars) {
		return false
	}
	return !strings.ContainsFunc(state, func(r rune) bool {
		return r <= ' ' || r == 0x7f
	})
}
