package config

import (
	"time"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

// OAuth holds the authorization settings read from OAUTH_* variables.
type OAuth struct {
	GrantType        string   `env:"OAUTH_GRANT_TYPE"        envDefault:"authorization_code"`
	ResponseType     string   `env:"OAUTH_RESPONSE_TYPE"`
	ClientID         string   `env:"OAUTH_CLIENT_ID"`
	ClientSecret     string   `env:"OAUTH_CLIENT_SECRET"`
	AuthorizationURI string   `env:"OAUTH_AUTHORIZATION_URI"`
	AccessTokenURI   string   `env:"OAUTH_ACCESS_TOKEN_URI"`
	RedirectURI      string   `env:"OAUTH_REDIRECT_URI"      envDefault:"http://127.0.0.1:8085/callback"`
	Scopes           []string `env:"OAUTH_SCOPES"            envSeparator:","`
	State            string   `env:"OAUTH_STATE"`
	PKCE             bool     `env:"OAUTH_PKCE"              envDefault:"true"`
	Username         string   `env:"OAUTH_USERNAME"`
	Password         string   `env:"OAUTH_PASSWORD"`
	DeviceCode       string   `env:"OAUTH_DEVICE_CODE"`
	Assertion        string   `env:"OAUTH_ASSERTION"`
	DeliveryMethod   string   `env:"OAUTH_DELIVERY_METHOD"`
	DeliveryName     string   `env:"OAUTH_DELIVERY_NAME"`
	LoginHint        string   `env:"OAUTH_LOGIN_HINT"`
	Nonce            string   `env:"OAUTH_NONCE"`
	Issuer           string   `env:"OAUTH_ISSUER"`

	AssertionKeyFile  string        `env:"OAUTH_ASSERTION_KEY_FILE"`
	AssertionKeyID    string        `env:"OAUTH_ASSERTION_KEY_ID"`
	AssertionSecret   string        `env:"OAUTH_ASSERTION_SECRET"`
	AssertionIssuer   string        `env:"OAUTH_ASSERTION_ISSUER"`
	AssertionSubject  string        `env:"OAUTH_ASSERTION_SUBJECT"`
	AssertionAudience string        `env:"OAUTH_ASSERTION_AUDIENCE"`
	AssertionLifetime time.Duration `env:"OAUTH_ASSERTION_LIFETIME" envDefault:"5m"`
}

// AssertionSettings describe how to sign a jwt-bearer assertion when none is configured directly.
type AssertionSettings struct {
	KeyFile  string // PEM private key (RS256 or ES256)
	KeyID    string
	Secret   string // HS256 shared secret, used when KeyFile is empty
	Issuer   string // Defaults to the client id
	Subject  string
	Audience string // Defaults to the token endpoint
	Lifetime time.Duration
}

// Enabled reports whether an assertion can be signed.
func (a AssertionSettings) Enabled() bool {
	return a.KeyFile != "" || a.Secret != ""
}

var _ OAuthConfig = OAuth{}

// GetAuthorizationConfig maps the environment onto an authorization config.
// Redirect related settings are only set for the interactive grants.
func (o OAuth) GetAuthorizationConfig() *oauthmodel.AuthorizationConfig {
	cfg := &oauthmodel.AuthorizationConfig{
		GrantType:      oauth2.GrantType(o.GrantType),
		ResponseType:   oauth2.ResponseType(o.ResponseType),
		ClientID:       o.ClientID,
		ClientSecret:   o.ClientSecret,
		AccessTokenURI: o.AccessTokenURI,
		Scopes:         o.Scopes,
		State:          o.State,
		Username:       o.Username,
		Password:       o.Password,
		DeviceCode:     o.DeviceCode,
		Assertion:      o.Assertion,
		DeliveryMethod: oauth2.DeliveryMethod(o.DeliveryMethod),
		DeliveryName:   o.DeliveryName,
	}
	if cfg.GrantType.IsInteractive() {
		cfg.AuthorizationURI = o.AuthorizationURI
		cfg.RedirectURI = o.RedirectURI
		cfg.PKCE = o.PKCE && cfg.GrantType.Canonical() == oauth2.AuthorizationCodeGrant
		cfg.LoginHint = o.LoginHint
		cfg.Nonce = o.Nonce
	}
	return cfg
}

func (o OAuth) GetAssertionSettings() AssertionSettings {
	issuer := o.AssertionIssuer
	if issuer == "" {
		issuer = o.ClientID
	}
	audience := o.AssertionAudience
	if audience == "" {
		audience = o.AccessTokenURI
	}
	return AssertionSettings{
		KeyFile:  o.AssertionKeyFile,
		KeyID:    o.AssertionKeyID,
		Secret:   o.AssertionSecret,
		Issuer:   issuer,
		Subject:  o.AssertionSubject,
		Audience: audience,
		Lifetime: o.AssertionLifetime,
	}
}

// GetIssuer returns the OpenID issuer used to verify ID tokens. Empty disables verification.
func (o OAuth) GetIssuer() string {
	return o.Issuer
}
