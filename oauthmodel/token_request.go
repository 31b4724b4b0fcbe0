package oauthmodel

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
)

const formContentType = "application/x-www-form-urlencoded"

// ExchangeValues are the values produced during the interactive leg that the
// token request needs. Both are empty for the direct grants.
type ExchangeValues struct {
	// Code is the authorization code received on the redirect.
	Code string
	// CodeVerifier is the PKCE verifier matching the challenge sent earlier.
	CodeVerifier string
}

// TokenRequest is the POST sent to the token endpoint.
type TokenRequest struct {
	URL     string
	Headers http.Header
	Body    Params
}

// field is one grant specific body field and where its value comes from.
type field struct {
	name  string
	value func(c *AuthorizationConfig, ev ExchangeValues) string
}

var (
	codeField         = field{"code", func(_ *AuthorizationConfig, ev ExchangeValues) string { return ev.Code }}
	redirectURIField  = field{"redirect_uri", func(c *AuthorizationConfig, _ ExchangeValues) string { return c.RedirectURI }}
	codeVerifierField = field{"code_verifier", func(_ *AuthorizationConfig, ev ExchangeValues) string { return ev.CodeVerifier }}
	usernameField     = field{"username", func(c *AuthorizationConfig, _ ExchangeValues) string { return c.Username }}
	passwordField     = field{"password", func(c *AuthorizationConfig, _ ExchangeValues) string { return c.Password }}
	deviceCodeField   = field{"device_code", func(c *AuthorizationConfig, _ ExchangeValues) string { return c.DeviceCode }}
	assertionField    = field{"assertion", func(c *AuthorizationConfig, _ ExchangeValues) string { return c.Assertion }}
)

// grantFields lists the grant specific body fields. A field is only written when it has a value.
var grantFields = map[oauth2.GrantType][]field{
	oauth2.AuthorizationCodeGrant: {codeField, redirectURIField, codeVerifierField},
	oauth2.ClientCredentialsGrant: {},
	oauth2.PasswordGrant:          {usernameField, passwordField},
	oauth2.DeviceCodeGrant:        {deviceCodeField},
	oauth2.JWTBearerGrant:         {assertionField},
}

// customGrantFields is used for any grant type not in grantFields.
var customGrantFields = []field{usernameField, passwordField, assertionField, deviceCodeField, redirectURIField}

// grantsWithoutScope never send scope to the token endpoint; for the code flow it
// was already bound to the code at the authorization endpoint.
var grantsWithoutScope = map[oauth2.GrantType]bool{
	oauth2.AuthorizationCodeGrant: true,
}

// NewTokenRequest builds the token endpoint request for cfg's grant.
//
// Body order: grant_type, client credentials (body delivery), grant fields, scope,
// then the custom body values.
func NewTokenRequest(cfg *AuthorizationConfig, ev ExchangeValues) *TokenRequest {
	grant := cfg.GrantType.Canonical()

	body := Params{}
	body.Add("grant_type", grant.WireValue())

	query := Params{}
	headers := http.Header{}
	headers.Set("Content-Type", formContentType)

	switch cfg.EffectiveDeliveryMethod() {
	case oauth2.HeaderDelivery:
		if cfg.ClientID != "" || cfg.ClientSecret != "" {
			headers.Set(cfg.EffectiveDeliveryName(), BasicAuthorization(cfg.ClientID, cfg.ClientSecret))
		}
	case oauth2.QueryDelivery:
		query.AddIfSet("client_id", cfg.ClientID)
		query.AddIfSet("client_secret", cfg.ClientSecret)
	default:
		body.AddIfSet("client_id", cfg.ClientID)
		body.AddIfSet("client_secret", cfg.ClientSecret)
	}

	fields, ok := grantFields[grant]
	if !ok {
		fields = customGrantFields
	}
	for _, f := range fields {
		body.AddIfSet(f.name, f.value(cfg, ev))
	}

	if !grantsWithoutScope[grant] && len(cfg.Scopes) > 0 {
		body.Add("scope", strings.Join(cfg.Scopes, " "))
	}

	cfg.CustomData.Token.ApplyParameters(&query)
	cfg.CustomData.Token.ApplyBody(&body)
	cfg.CustomData.Token.ApplyHeaders(headers)

	return &TokenRequest{
		URL:     AppendToURL(cfg.AccessTokenURI, query),
		Headers: headers,
		Body:    body,
	}
}

// BasicAuthorization returns an Authorization header value for basic client authentication.
func BasicAuthorization(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}
