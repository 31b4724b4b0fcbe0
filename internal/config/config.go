package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

type Config interface {
	EnvConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetHTTPTimeout() time.Duration
	GetCaptureTimeout() time.Duration
}

type OAuthConfig interface {
	GetAuthorizationConfig() *oauthmodel.AuthorizationConfig
	GetAssertionSettings() AssertionSettings
	GetIssuer() string
}

type mainConfig struct {
	EnvVars
	OAuth
}

// New reads the configuration from the environment.
func New() (Config, error) {
	c := mainConfig{}
	if err := env.Parse(&c.EnvVars); err != nil {
		return nil, fmt.Errorf("[config.New] parse env: %w", err)
	}
	if err := env.Parse(&c.OAuth); err != nil {
		return nil, fmt.Errorf("[config.New] parse oauth env: %w", err)
	}
	return c, nil
}
