package oauth2

import "strings"

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Used in: Authorization Code Flow
	// Returns an authorization code that must be exchanged for tokens at the token endpoint.
	// Example: /oauth/authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"

	// TokenResponseType indicates the implicit flow.
	// Used in: Implicit Flow (deprecated, still supported by many servers)
	// Returns the access token directly in the redirect URL fragment.
	// Example: https://client.example.com/callback#access_token=...&state=xyz
	TokenResponseType ResponseType = "token"
)

// Contains reports whether the (possibly space separated) response type requests part.
// "code id_token" contains both "code" and "id_token".
func (r ResponseType) Contains(part string) bool {
	for _, p := range strings.Fields(string(r)) {
		if p == part {
			return true
		}
	}
	return false
}

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge method.
// Used to prevent authorization code interception attacks.
type CodeMethodType string

const (
	// CodeMethodTypeS256 indicates SHA-256 hashing is used for the code challenge.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// This is the only method the authorizer generates.
	CodeMethodTypeS256 CodeMethodType = "S256"
)

// GrantType represents the OAuth 2.0 grant used to obtain a token.
// Any string that is not one of the constants below is treated as a custom grant
// and sent verbatim as grant_type.
type GrantType string

const (
	// ImplicitGrant receives the token directly from the authorization redirect.
	// Used in: Browser based clients without a backend
	// Requires: authorization URI, client_id, redirect_uri
	// Returns: access_token (and optionally id_token) in the redirect URL
	ImplicitGrant GrantType = "implicit"

	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Standard Authorization Code Flow, optionally with PKCE
	// Token request includes: code, redirect_uri, client credentials, code_verifier (if PKCE)
	// Returns: access_token, id_token, refresh_token (if requested)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client credentials, scope
	// Returns: access_token (no refresh_token or id_token)
	ClientCredentialsGrant GrantType = "client_credentials"

	// PasswordGrant exchanges the resource owner's username and password for tokens.
	// Used in: Trusted first party clients only
	// Token request includes: username, password, client credentials, scope
	PasswordGrant GrantType = "password"

	// DeviceCodeGrant exchanges a device code obtained out of band (RFC 8628).
	// Token request includes: grant_type=urn:ietf:params:oauth:grant-type:device_code, device_code
	DeviceCodeGrant GrantType = "device_code"

	// JWTBearerGrant exchanges a signed JWT assertion (RFC 7523).
	// Token request includes: grant_type=urn:ietf:params:oauth:grant-type:jwt-bearer, assertion, scope
	JWTBearerGrant GrantType = "jwt-bearer"
)

// Wire values for the grants that are identified by a URN at the token endpoint.
const (
	DeviceCodeGrantURN GrantType = "urn:ietf:params:oauth:grant-type:device_code"
	JWTBearerGrantURN  GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Canonical folds the RFC URN aliases onto their short names.
func (g GrantType) Canonical() GrantType {
	switch g {
	case DeviceCodeGrantURN:
		return DeviceCodeGrant
	case JWTBearerGrantURN:
		return JWTBearerGrant
	}
	return g
}

// WireValue returns the grant_type value sent to the token endpoint.
func (g GrantType) WireValue() string {
	switch g.Canonical() {
	case DeviceCodeGrant:
		return string(DeviceCodeGrantURN)
	case JWTBearerGrant:
		return string(JWTBearerGrantURN)
	}
	return string(g)
}

// IsInteractive reports whether the grant needs the redirect capture leg.
func (g GrantType) IsInteractive() bool {
	switch g.Canonical() {
	case ImplicitGrant, AuthorizationCodeGrant:
		return true
	}
	return false
}

// DefaultResponseType maps an interactive grant to its response_type.
func (g GrantType) DefaultResponseType() ResponseType {
	switch g.Canonical() {
	case ImplicitGrant:
		return TokenResponseType
	case AuthorizationCodeGrant:
		return CodeResponseType
	}
	return ""
}

// DeliveryMethod controls how client credentials reach the token endpoint.
type DeliveryMethod string

const (
	// BodyDelivery sends client_id and client_secret in the form body (default).
	BodyDelivery DeliveryMethod = "body"

	// HeaderDelivery sends a single "Basic base64(client_id:client_secret)" header.
	// The header name defaults to DefaultDeliveryName.
	HeaderDelivery DeliveryMethod = "header"

	// QueryDelivery appends client_id and client_secret to the token endpoint URL.
	QueryDelivery DeliveryMethod = "query"
)

// DefaultDeliveryName is the header used by HeaderDelivery when none is configured.
const DefaultDeliveryName = "authorization"

// IsValid reports whether the delivery method is known. The empty value means BodyDelivery.
func (d DeliveryMethod) IsValid() bool {
	switch d {
	case "", BodyDelivery, HeaderDelivery, QueryDelivery:
		return true
	}
	return false
}
