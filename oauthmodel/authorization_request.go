package oauthmodel

import (
	"strings"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
)

// AuthorizationRequest is the URL opened in the browser surface together with the
// values the rest of the flow needs.
type AuthorizationRequest struct {
	URL          string
	ResponseType oauth2.ResponseType
	// CodeVerifier is set when PKCE is in use and must be sent with the code exchange.
	CodeVerifier string
}

// authReservedParams are never taken from custom authorization parameters.
var authReservedParams = []string{"client_secret"}

// NewAuthorizationRequest builds the authorization URL for the implicit and
// authorization code flows. cfg.State must already be set.
//
// The client secret is never part of the URL.
func NewAuthorizationRequest(cfg *AuthorizationConfig) *AuthorizationRequest {
	responseType := cfg.EffectiveResponseType()

	params := Params{}
	params.Add("response_type", string(responseType))
	params.Add("client_id", cfg.ClientID)
	params.Add("state", cfg.State)
	params.AddIfSet("redirect_uri", cfg.RedirectURI)
	if len(cfg.Scopes) > 0 {
		params.Add("scope", strings.Join(cfg.Scopes, " "))
	}
	if cfg.IncludeGrantedScopes {
		params.Add("include_granted_scopes", "true")
	}
	params.AddIfSet("login_hint", cfg.LoginHint)
	params.AddIfSet("nonce", cfg.Nonce)

	req := &AuthorizationRequest{ResponseType: responseType}
	if cfg.PKCE && responseType.Contains(string(oauth2.CodeResponseType)) {
		pkce := NewPKCE()
		req.CodeVerifier = pkce.Verifier
		params.Add("code_challenge", pkce.Challenge)
		params.Add("code_challenge_method", string(oauth2.CodeMethodTypeS256))
	}

	cfg.CustomData.Auth.ApplyParameters(&params, authReservedParams...)

	req.URL = AppendToURL(cfg.AuthorizationURI, params)
	return req
}
