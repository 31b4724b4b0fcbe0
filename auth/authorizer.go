package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oauth-authorizer/capture"
	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
	"github.com/jrsteele09/go-oauth-authorizer/transport"
)

// DefaultHTTPTimeout bounds the token exchange when no transport is configured.
const DefaultHTTPTimeout = 30 * time.Second

// IDTokenVerifier checks an ID token returned with an access token.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken, nonce string) error
}

// Authorizer drives OAuth2 grant flows. It holds only collaborators; every call to
// Authorize runs its own attempt, so one Authorizer can serve concurrent callers.
type Authorizer struct {
	transport transport.Transport // Token endpoint client
	capture   capture.Adapter     // Interactive surface for implicit and authorization_code
	verifier  IDTokenVerifier     // Optional ID token check
	logger    zerolog.Logger
	nowTime   func() time.Time // nowTime function (injectable for testing)
	newState  func() string
}

// AuthorizerOption defines a function type to modify the Authorizer instance.
type AuthorizerOption func(*Authorizer)

// WithTransport sets the client used for token endpoint requests.
func WithTransport(t transport.Transport) AuthorizerOption {
	return func(a *Authorizer) {
		a.transport = t
	}
}

// WithCapture sets the redirect capture adapter used by the interactive grants.
func WithCapture(c capture.Adapter) AuthorizerOption {
	return func(a *Authorizer) {
		a.capture = c
	}
}

// WithIDTokenVerifier enables verification of ID tokens returned with access tokens.
func WithIDTokenVerifier(v IDTokenVerifier) AuthorizerOption {
	return func(a *Authorizer) {
		a.verifier = v
	}
}

// WithLogger sets the logger. Defaults to the global zerolog logger.
func WithLogger(logger zerolog.Logger) AuthorizerOption {
	return func(a *Authorizer) {
		a.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizerOption {
	return func(a *Authorizer) {
		a.nowTime = nowFunc
	}
}

// WithStateGenerator sets the function used when a config carries no state.
func WithStateGenerator(gen func() string) AuthorizerOption {
	return func(a *Authorizer) {
		a.newState = gen
	}
}

// New creates an Authorizer. Without WithCapture the interactive grants fail
// with popup_blocked.
func New(options ...AuthorizerOption) *Authorizer {
	a := &Authorizer{
		logger:   log.Logger,
		nowTime:  time.Now,
		newState: uuid.NewString,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.transport == nil {
		a.transport = transport.NewHTTP(nil, DefaultHTTPTimeout)
	}
	return a
}

// Authorize runs one authorization attempt for cfg and returns its single outcome.
// cfg is copied on entry and never modified. Failures are *AuthorizationError.
//
// Flow:
//   - implicit: open the capture, read the token from the redirect
//   - authorization_code: open the capture, read the code, exchange it
//   - every other grant: exchange directly at the token endpoint
func (a *Authorizer) Authorize(ctx context.Context, cfg *oauthmodel.AuthorizationConfig) (*oauth2.TokenInfo, error) {
	if cfg == nil {
		return nil, newError(CodeInvalidConfig, "[Authorize] config is required", "", nil)
	}
	at := a.newAttempt(cfg.Clone())
	at.run(ctx)
	return at.outcome()
}
