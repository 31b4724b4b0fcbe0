package oauthmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

func validConfig(grant oauth2.GrantType) *oauthmodel.AuthorizationConfig {
	return &oauthmodel.AuthorizationConfig{
		GrantType:        grant,
		ClientID:         "client-1",
		AuthorizationURI: "https://auth.example.com/authorize",
		AccessTokenURI:   "https://auth.example.com/token",
		RedirectURI:      "http://localhost:3000/callback",
		Username:         "user",
		Password:         "pass",
		DeviceCode:       "device",
		Assertion:        "a.b.c",
	}
}

func TestCheckConfig(t *testing.T) {
	t.Run("every known grant", func(t *testing.T) {
		for _, grant := range []oauth2.GrantType{
			oauth2.ImplicitGrant,
			oauth2.AuthorizationCodeGrant,
			oauth2.ClientCredentialsGrant,
			oauth2.PasswordGrant,
			oauth2.DeviceCodeGrant,
			oauth2.DeviceCodeGrantURN,
			oauth2.JWTBearerGrant,
			oauth2.JWTBearerGrantURN,
			"urn:example:custom",
		} {
			require.NoError(t, oauthmodel.CheckConfig(validConfig(grant)), grant)
		}
	})

	tests := []struct {
		name    string
		grant   oauth2.GrantType
		mutate  func(c *oauthmodel.AuthorizationConfig)
		wantErr error
	}{
		{"missing grant", "", func(c *oauthmodel.AuthorizationConfig) {}, oauthmodel.ErrMissingGrantType},
		{"implicit without authorization uri", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.AuthorizationURI = "" }, oauthmodel.ErrMissingAuthorizationURI},
		{"implicit without redirect", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.RedirectURI = "" }, oauthmodel.ErrMissingRedirectURI},
		{"code without token uri", oauth2.AuthorizationCodeGrant, func(c *oauthmodel.AuthorizationConfig) { c.AccessTokenURI = "" }, oauthmodel.ErrMissingAccessTokenURI},
		{"client credentials without client id", oauth2.ClientCredentialsGrant, func(c *oauthmodel.AuthorizationConfig) { c.ClientID = " " }, oauthmodel.ErrMissingClientID},
		{"password without username", oauth2.PasswordGrant, func(c *oauthmodel.AuthorizationConfig) { c.Username = "" }, oauthmodel.ErrMissingUsername},
		{"password without password", oauth2.PasswordGrant, func(c *oauthmodel.AuthorizationConfig) { c.Password = "" }, oauthmodel.ErrMissingPassword},
		{"device code without code", oauth2.DeviceCodeGrantURN, func(c *oauthmodel.AuthorizationConfig) { c.DeviceCode = "" }, oauthmodel.ErrMissingDeviceCode},
		{"jwt bearer without assertion", oauth2.JWTBearerGrant, func(c *oauthmodel.AuthorizationConfig) { c.Assertion = "" }, oauthmodel.ErrMissingAssertion},
		{"custom without token uri", "urn:example:custom", func(c *oauthmodel.AuthorizationConfig) { c.AccessTokenURI = "" }, oauthmodel.ErrMissingAccessTokenURI},
		{"relative token uri", oauth2.ClientCredentialsGrant, func(c *oauthmodel.AuthorizationConfig) { c.AccessTokenURI = "/token" }, oauthmodel.ErrInvalidURI},
		{"non http redirect", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.RedirectURI = "myapp://callback" }, oauthmodel.ErrInvalidURI},
		{"state with ampersand", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.State = "a&b" }, oauthmodel.ErrInvalidState},
		{"state with hash", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.State = "a#b" }, oauthmodel.ErrInvalidState},
		{"state with space", oauth2.ImplicitGrant, func(c *oauthmodel.AuthorizationConfig) { c.State = "a b" }, oauthmodel.ErrInvalidState},
		{"unknown delivery", oauth2.ClientCredentialsGrant, func(c *oauthmodel.AuthorizationConfig) { c.DeliveryMethod = "cookie" }, oauthmodel.ErrInvalidDeliveryMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig(tt.grant)
			tt.mutate(c)
			require.ErrorIs(t, oauthmodel.CheckConfig(c), tt.wantErr)
		})
	}

	t.Run("does not modify the config", func(t *testing.T) {
		c := validConfig(oauth2.ImplicitGrant)
		before := *c
		require.NoError(t, oauthmodel.CheckConfig(c))
		require.Equal(t, before, *c)
	})

	t.Run("first invalid uri is reported", func(t *testing.T) {
		c := validConfig(oauth2.AuthorizationCodeGrant)
		c.AuthorizationURI = "/authorize"
		c.AccessTokenURI = "/token"
		c.RedirectURI = "myapp://callback"
		for range 20 {
			err := oauthmodel.CheckConfig(c)
			require.ErrorIs(t, err, oauthmodel.ErrInvalidURI)
			require.Contains(t, err.Error(), "authorization uri")
		}
	})

	t.Run("url safe state", func(t *testing.T) {
		c := validConfig(oauth2.ImplicitGrant)
		c.State = "f47ac10b-58cc-4372-a567-0e02b2c3d479_~."
		require.NoError(t, oauthmodel.CheckConfig(c))
	})
}

func TestClone(t *testing.T) {
	c := validConfig(oauth2.AuthorizationCodeGrant)
	c.Scopes = []string{"openid"}
	c.CustomData.Token.Body = oauthmodel.Params{{Name: "a", Value: "1"}}

	clone := c.Clone()
	clone.Scopes[0] = "changed"
	clone.CustomData.Token.Body[0].Value = "changed"
	clone.State = "other"

	require.Equal(t, []string{"openid"}, c.Scopes)
	require.Equal(t, "1", c.CustomData.Token.Body[0].Value)
	require.Empty(t, c.State)
}
