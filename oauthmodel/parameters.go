package oauthmodel

import (
	"slices"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
)

// AuthorizationConfig holds everything the authorizer needs for one authorization attempt.
// It is read-only once the attempt starts; the authorizer works on its own copy.
type AuthorizationConfig struct {
	// GrantType selects the flow.
	// Required: Yes
	// Example: "authorization_code", "client_credentials", "urn:example:custom-grant"
	// Unknown values are sent verbatim as grant_type to the token endpoint.
	GrantType oauth2.GrantType

	// ResponseType overrides the response_type sent to the authorization endpoint.
	// Flow: Implicit, Authorization Code
	// Required: No (implicit -> "token", authorization_code -> "code")
	// Example: "code id_token"
	ResponseType oauth2.ResponseType

	// ClientID identifies the application requesting authorization.
	// Required: implicit, authorization_code, client_credentials
	ClientID string

	// ClientSecret is the secret credential for confidential clients.
	// Required: No
	// Security: Never placed in the authorization URL, never logged
	ClientSecret string

	// AuthorizationURI is the authorization endpoint opened in the browser surface.
	// Required: implicit, authorization_code
	// Example: "https://auth.example.com/oauth/authorize"
	AuthorizationURI string

	// AccessTokenURI is the token endpoint.
	// Required: every grant except implicit
	// Example: "https://auth.example.com/oauth/token"
	AccessTokenURI string

	// RedirectURI is where the authorization server sends the browser back.
	// Required: implicit, authorization_code
	// The first navigation whose URL starts with this value completes the interactive leg.
	RedirectURI string

	// Scopes are the requested scopes, serialized space joined in this order.
	// Example: []string{"openid", "profile"}
	Scopes []string

	// State correlates the redirect with this attempt.
	// Required: No (a random value is generated when empty)
	// Must not contain URL reserved characters.
	State string

	// PKCE enables Proof Key for Code Exchange with the S256 method.
	// Flow: Authorization Code only
	PKCE bool

	// Username and Password are the resource owner credentials.
	// Flow: Password grant (and custom grants that need them)
	Username string
	Password string

	// Assertion is the signed JWT sent with the jwt-bearer grant.
	Assertion string

	// DeviceCode is the device_code obtained from the device authorization endpoint.
	DeviceCode string

	// DeliveryMethod controls how client credentials reach the token endpoint.
	// Default: body
	DeliveryMethod oauth2.DeliveryMethod

	// DeliveryName is the header name used with the header delivery method.
	// Default: "authorization"
	DeliveryName string

	// IncludeGrantedScopes sends include_granted_scopes=true (incremental authorization).
	IncludeGrantedScopes bool

	// LoginHint pre-fills the username/email on the login page.
	LoginHint string

	// Nonce is sent as the OpenID Connect nonce and checked against a verified ID token.
	Nonce string

	// CustomData carries extra parameters for auth-server quirks.
	CustomData CustomData
}

// CustomData holds caller supplied extra parameters, per phase.
type CustomData struct {
	// Auth is applied to the authorization URL. Only Parameters are used.
	Auth CustomPhase `json:"auth"`
	// Token is applied to the token request.
	Token CustomPhase `json:"token"`
}

// CustomPhase holds the extra values for one phase, per channel.
type CustomPhase struct {
	Parameters Params `json:"parameters,omitempty"`
	Headers    Params `json:"headers,omitempty"`
	Body       Params `json:"body,omitempty"`
}

// Clone returns a deep copy so later changes by the caller cannot leak into a running attempt.
func (c *AuthorizationConfig) Clone() *AuthorizationConfig {
	clone := *c
	clone.Scopes = slices.Clone(c.Scopes)
	clone.CustomData = CustomData{
		Auth:  c.CustomData.Auth.clone(),
		Token: c.CustomData.Token.clone(),
	}
	return &clone
}

func (p CustomPhase) clone() CustomPhase {
	return CustomPhase{
		Parameters: slices.Clone(p.Parameters),
		Headers:    slices.Clone(p.Headers),
		Body:       slices.Clone(p.Body),
	}
}

// EffectiveResponseType returns the configured response type or the grant's default.
func (c *AuthorizationConfig) EffectiveResponseType() oauth2.ResponseType {
	if c.ResponseType != "" {
		return c.ResponseType
	}
	return c.GrantType.DefaultResponseType()
}

// EffectiveDeliveryMethod returns the configured delivery method or the body default.
func (c *AuthorizationConfig) EffectiveDeliveryMethod() oauth2.DeliveryMethod {
	if c.DeliveryMethod == "" {
		return oauth2.BodyDelivery
	}
	return c.DeliveryMethod
}

// EffectiveDeliveryName returns the header used for header delivery.
func (c *AuthorizationConfig) EffectiveDeliveryName() string {
	if c.DeliveryName == "" {
		return oauth2.DefaultDeliveryName
	}
	return c.DeliveryName
}
