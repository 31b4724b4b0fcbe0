package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
	"github.com/jrsteele09/go-oauth-authorizer/token"
	"github.com/jrsteele09/go-oauth-authorizer/transport"
)

// exchange posts the token request for the configured grant and resolves the
// attempt from the response. No retries are made.
func (at *attempt) exchange(ctx context.Context, from phase, ev oauthmodel.ExchangeValues) {
	if !at.advance(from, phaseExchangingToken) {
		at.fail(newError(CodeUnknownState, "", at.cfg.State, nil))
		return
	}

	tr := oauthmodel.NewTokenRequest(at.cfg, ev)
	res, err := at.transport.Do(ctx, &transport.Request{
		Method:  http.MethodPost,
		URL:     tr.URL,
		Headers: tr.Headers,
		Payload: tr.Body.Encode(),
	})
	if err != nil {
		at.fail(newError(CodeRequestError, "Couldn't connect to the server. "+err.Error(), at.cfg.State,
			errors.Wrap(err, "[exchange] token request")))
		return
	}
	now := at.nowTime()
	at.logger.Debug().Int("status", res.Status).Msg("token endpoint responded")

	if failure := responseFailure(res, at.cfg.State); failure != nil {
		at.fail(failure)
		return
	}

	payload, err := token.Decode(res.Body, res.Headers.Get("Content-Type"))
	if err != nil {
		failure := newError(CodeRequestError, "Unable to read the token response. "+err.Error(), at.cfg.State, err)
		failure.Status = res.Status
		at.fail(failure)
		return
	}
	if !at.validate(payload, false) {
		return
	}

	info := payload.TokenInfo(token.Options{
		Now:             now,
		RequestedScopes: at.cfg.Scopes,
		State:           at.cfg.State,
	})
	if info.AccessToken == "" {
		at.fail(newError(CodeNoToken, "", at.cfg.State, nil))
		return
	}
	at.complete(ctx, info)
}

// responseFailure maps token endpoint statuses and empty bodies to errors. It
// returns nil for a response that should be parsed as a token.
func responseFailure(res *transport.Response, state string) *AuthorizationError {
	var failure *AuthorizationError
	switch {
	case res.Status == http.StatusNotFound:
		failure = newError(CodeRequestError, "Authorization URI is invalid. Received status 404.", state, nil)
	case res.Status >= http.StatusInternalServerError:
		failure = newError(CodeRequestError, fmt.Sprintf("Authorization server error. Response code is %d.", res.Status), state, nil)
	case strings.TrimSpace(res.Body) == "":
		failure = newError(CodeRequestError, "Code response body is empty.", state, nil)
	case res.Status >= http.StatusBadRequest:
		failure = clientFailure(res, state)
	default:
		return nil
	}
	failure.Status = res.Status
	return failure
}

// clientFailure reports a 4xx response. A body carrying an OAuth2 error is mapped
// through the taxonomy; anything else is a request_error with the raw body.
func clientFailure(res *transport.Response, state string) *AuthorizationError {
	if payload, err := token.Decode(res.Body, res.Headers.Get("Content-Type")); err == nil {
		if code, description, ok := payload.Error(); ok && code != "" {
			return newServerError(code, description, state)
		}
	}
	return newError(CodeRequestError, "Client error: "+res.Body, state, nil)
}
