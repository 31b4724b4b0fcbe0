package auth

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-oauth-authorizer/capture"
	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
	"github.com/jrsteele09/go-oauth-authorizer/token"
)

type phase int

const (
	phaseIdle phase = iota
	phaseDispatching
	phaseAwaitingRedirect
	phaseRedirectReceived
	phaseExchangingToken
	phaseResolved
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseDispatching:
		return "dispatching"
	case phaseAwaitingRedirect:
		return "awaiting_redirect"
	case phaseRedirectReceived:
		return "redirect_received"
	case phaseExchangingToken:
		return "exchanging_token"
	case phaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// captureEvent is the first event reported by the capture adapter.
type captureEvent struct {
	rawURL string
	closed bool
}

// attempt is one authorization run. It moves through the phases above and is
// resolved exactly once through finish.
type attempt struct {
	*Authorizer
	cfg    *oauthmodel.AuthorizationConfig
	logger zerolog.Logger

	mu     sync.Mutex
	phase  phase
	token  *oauth2.TokenInfo
	err    *AuthorizationError
	events chan captureEvent

	codeVerifier string
}

func (a *Authorizer) newAttempt(cfg *oauthmodel.AuthorizationConfig) *attempt {
	if cfg.State == "" {
		cfg.State = a.newState()
	}
	return &attempt{
		Authorizer: a,
		cfg:        cfg,
		logger: a.logger.With().
			Str("grant_type", string(cfg.GrantType)).
			Str("state", cfg.State).
			Logger(),
		events: make(chan captureEvent, 1),
	}
}

func (at *attempt) run(ctx context.Context) {
	if err := oauthmodel.CheckConfig(at.cfg); err != nil {
		at.fail(newError(CodeInvalidConfig, err.Error(), at.cfg.State, err))
		return
	}
	if !at.advance(phaseIdle, phaseDispatching) {
		at.fail(newError(CodeUnknownState, "", at.cfg.State, nil))
		return
	}

	if at.cfg.GrantType.IsInteractive() {
		at.authorizeInteractive(ctx)
		return
	}
	at.exchange(ctx, phaseDispatching, oauthmodel.ExchangeValues{})
}

// authorizeInteractive opens the capture and waits for its first event.
func (at *attempt) authorizeInteractive(ctx context.Context) {
	if at.capture == nil {
		at.fail(newError(CodePopupBlocked, "", at.cfg.State, capture.ErrPopupBlocked))
		return
	}

	req := oauthmodel.NewAuthorizationRequest(at.cfg)
	at.codeVerifier = req.CodeVerifier

	// The adapter may report before Open returns.
	if !at.advance(phaseDispatching, phaseAwaitingRedirect) {
		at.fail(newError(CodeUnknownState, "", at.cfg.State, nil))
		return
	}
	handle, err := at.capture.Open(ctx, req.URL, at.cfg.RedirectURI, capture.Listener{
		OnMatch: at.onMatch,
		OnClose: at.onClose,
	})
	if err != nil {
		at.fail(newError(CodePopupBlocked, "", at.cfg.State, err))
		return
	}

	var ev captureEvent
	select {
	case ev = <-at.events:
	case <-ctx.Done():
		if at.advance(phaseAwaitingRedirect, phaseRedirectReceived) {
			ev = captureEvent{closed: true}
		} else {
			// An event won the transition and is already buffered.
			ev = <-at.events
		}
	}
	if err := handle.Close(); err != nil {
		at.logger.Debug().Err(err).Msg("capture close")
	}

	if ev.closed {
		at.fail(newError(CodeNoResponse, "", at.cfg.State, ctx.Err()))
		return
	}
	at.handleRedirect(ctx, ev.rawURL)
}

func (at *attempt) onMatch(rawURL string) {
	at.deliver(captureEvent{rawURL: rawURL})
}

func (at *attempt) onClose() {
	at.deliver(captureEvent{closed: true})
}

// deliver forwards the first capture event. Later events are dropped.
func (at *attempt) deliver(ev captureEvent) {
	at.mu.Lock()
	defer at.mu.Unlock()
	if at.phase != phaseAwaitingRedirect {
		at.logger.Debug().Bool("closed", ev.closed).Str("phase", at.phase.String()).Msg("ignoring late capture event")
		return
	}
	at.setPhase(phaseRedirectReceived)
	at.events <- ev
}

func (at *attempt) handleRedirect(ctx context.Context, rawURL string) {
	params, err := redirectParams(rawURL)
	if err != nil {
		at.fail(newError(CodePopupError, "", at.cfg.State, err))
		return
	}
	payload := token.FromParams(params)
	if !at.validate(payload, true) {
		return
	}

	switch at.cfg.GrantType.Canonical() {
	case oauth2.ImplicitGrant:
		info := payload.TokenInfo(token.Options{
			Now:             at.nowTime(),
			RequestedScopes: at.cfg.Scopes,
			State:           at.cfg.State,
		})
		if info.AccessToken == "" && at.cfg.EffectiveResponseType().Contains(string(oauth2.TokenResponseType)) {
			at.fail(newError(CodeNoToken, "", at.cfg.State, nil))
			return
		}
		at.complete(ctx, info)
	case oauth2.AuthorizationCodeGrant:
		code := payload.String(token.FieldCode)
		if code == "" {
			at.fail(newError(CodeNoCode, "", at.cfg.State, nil))
			return
		}
		at.exchange(ctx, phaseRedirectReceived, oauthmodel.ExchangeValues{
			Code:         code,
			CodeVerifier: at.codeVerifier,
		})
	default:
		at.fail(newError(CodeUnknownState, "", at.cfg.State, nil))
	}
}

// redirectParams extracts the auth payload from the redirect URL. The query takes
// precedence over the fragment.
func redirectParams(rawURL string) (oauthmodel.Params, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "[redirectParams] invalid redirect url")
	}
	raw := u.RawQuery
	if raw == "" {
		raw = u.EscapedFragment()
	}
	params, err := oauthmodel.ParseParams(raw)
	if err != nil {
		return nil, errors.Wrap(err, "[redirectParams] invalid redirect payload")
	}
	return params, nil
}

// validate applies the state and error checks shared by redirect payloads and
// token endpoint responses.
func (at *attempt) validate(payload token.Payload, stateRequired bool) bool {
	if !payload.Has(token.FieldState) {
		if stateRequired {
			at.fail(newError(CodeNoState, "", at.cfg.State, nil))
			return false
		}
	} else if serverState := payload.String(token.FieldState); serverState != at.cfg.State {
		err := newError(CodeInvalidState, "", at.cfg.State, nil)
		err.ServerState = serverState
		at.fail(err)
		return false
	}

	if code, description, ok := payload.Error(); ok {
		at.fail(newServerError(code, description, at.cfg.State))
		return false
	}
	return true
}

// complete verifies the ID token when configured and resolves with info.
func (at *attempt) complete(ctx context.Context, info *oauth2.TokenInfo) {
	if at.verifier != nil && info.IDToken != "" {
		if err := at.verifier.Verify(ctx, info.IDToken, at.cfg.Nonce); err != nil {
			msg := authorizerErrorMessages[CodeInvalidIDToken] + " " + err.Error()
			at.fail(newError(CodeInvalidIDToken, msg, at.cfg.State, err))
			return
		}
	}
	info.State = at.cfg.State
	at.finish(info, nil)
}

func (at *attempt) fail(err *AuthorizationError) {
	at.finish(nil, err)
}

// finish is the single resolution point. Calls after the first are ignored.
func (at *attempt) finish(info *oauth2.TokenInfo, err *AuthorizationError) bool {
	at.mu.Lock()
	defer at.mu.Unlock()
	if at.phase == phaseResolved {
		return false
	}
	at.setPhase(phaseResolved)
	at.token = info
	at.err = err

	if err != nil {
		at.logger.Warn().Str("code", err.Code).Int("status", err.Status).Msg(err.Message)
	} else {
		at.logger.Debug().Bool("expires_assumed", info.ExpiresAssumed).Msg("authorization complete")
	}
	return true
}

// outcome returns the resolved result. An attempt that returned without resolving
// is a logic error and reported as unknown_state.
func (at *attempt) outcome() (*oauth2.TokenInfo, error) {
	at.finish(nil, newError(CodeUnknownState, "", at.cfg.State, nil))

	at.mu.Lock()
	defer at.mu.Unlock()
	if at.err != nil {
		return nil, at.err
	}
	return at.token, nil
}

// advance moves from one phase to the next and reports whether the attempt was in from.
func (at *attempt) advance(from, to phase) bool {
	at.mu.Lock()
	defer at.mu.Unlock()
	if at.phase != from {
		return false
	}
	at.setPhase(to)
	return true
}

// setPhase must be called with mu held.
func (at *attempt) setPhase(to phase) {
	at.logger.Debug().Str("from", at.phase.String()).Str("to", to.String()).Msg("authorization transition")
	at.phase = to
}
