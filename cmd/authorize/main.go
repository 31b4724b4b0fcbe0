package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-authorizer/auth"
	"github.com/jrsteele09/go-oauth-authorizer/capture"
	"github.com/jrsteele09/go-oauth-authorizer/internal/config"
	interrors "github.com/jrsteele09/go-oauth-authorizer/internal/errors"
	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/token/jwt"
	"github.com/jrsteele09/go-oauth-authorizer/token/keys"
	"github.com/jrsteele09/go-oauth-authorizer/token/oidc"
	"github.com/jrsteele09/go-oauth-authorizer/transport"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Authorization failed")
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := c.GetCaptureTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cfg := c.GetAuthorizationConfig()
	if cfg.GrantType.Canonical() == oauth2.JWTBearerGrant && cfg.Assertion == "" {
		assertion, err := createAssertion(c.GetAssertionSettings())
		if err != nil {
			return err
		}
		cfg.Assertion = assertion
	}

	options := []auth.AuthorizerOption{
		auth.WithTransport(transport.NewHTTP(nil, c.GetHTTPTimeout())),
		auth.WithCapture(capture.NewLoopback(capture.WithLogger(log.Logger))),
		auth.WithLogger(log.Logger),
	}
	if issuer := c.GetIssuer(); issuer != "" {
		verifier, err := oidc.NewVerifier(ctx, issuer, cfg.ClientID)
		if err != nil {
			return interrors.Wrapf(err, "[run] id token verification for %s", issuer)
		}
		options = append(options, auth.WithIDTokenVerifier(verifier))
	}

	log.Info().Str("grant_type", string(cfg.GrantType)).Msg("Starting authorization")
	info, err := auth.New(options...).Authorize(ctx, cfg)
	if err != nil {
		var authErr *auth.AuthorizationError
		if errors.As(err, &authErr) {
			log.Error().
				Str("code", authErr.Code).
				Str("state", authErr.State).
				Str("server_state", authErr.ServerState).
				Int("status", authErr.Status).
				Msg(authErr.Message)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// createAssertion signs a jwt-bearer assertion with the configured key file or shared secret.
func createAssertion(settings config.AssertionSettings) (string, error) {
	var signer keys.Signer
	switch {
	case settings.KeyFile != "":
		keyPair, err := keys.LoadKeyPairFromFile(settings.KeyID, settings.KeyFile)
		if err != nil {
			return "", interrors.Wrapf(err, "[createAssertion] load %s", settings.KeyFile)
		}
		signer = keys.NewKeyPairSigner(keyPair)
	case settings.Secret != "":
		signer = keys.NewHMACSigner(settings.Secret)
	default:
		return "", fmt.Errorf("[createAssertion] no assertion, key file or secret: %w", interrors.ErrNotConfigured)
	}

	return jwt.NewCreator(signer).CreateAssertion(jwt.AssertionClaims{
		Issuer:   settings.Issuer,
		Subject:  settings.Subject,
		Audience: settings.Audience,
		Lifetime: settings.Lifetime,
	})
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(os.Stderr, myFigure.String())
}
