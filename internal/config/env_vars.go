package config

import "time"

type EnvVars struct {
	AppName        string        `env:"APP_NAME"        envDefault:"OAuth Authorizer"`
	Env            string        `env:"ENV"             envDefault:"DEV"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"    envDefault:"30s"`
	CaptureTimeout time.Duration `env:"CAPTURE_TIMEOUT" envDefault:"5m"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.HTTPTimeout
}

// GetCaptureTimeout bounds how long the CLI waits for the browser redirect. Zero waits forever.
func (e EnvVars) GetCaptureTimeout() time.Duration {
	return e.CaptureTimeout
}
