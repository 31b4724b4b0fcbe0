package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-oauth-authorizer/internal/errors"
	"github.com/jrsteele09/go-oauth-authorizer/internal/utils"
	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

// Camel cased names of the standard OAuth2 response fields.
const (
	FieldAccessToken      = "accessToken"
	FieldTokenType        = "tokenType"
	FieldRefreshToken     = "refreshToken"
	FieldIDToken          = "idToken"
	FieldExpiresIn        = "expiresIn"
	FieldScope            = "scope"
	FieldState            = "state"
	FieldCode             = "code"
	FieldError            = "error"
	FieldErrorDescription = "errorDescription"
	FieldErrorURI         = "errorUri"
)

// standardFields are mapped onto TokenInfo fields and kept out of Extra.
var standardFields = map[string]bool{
	FieldAccessToken:  true,
	FieldTokenType:    true,
	FieldRefreshToken: true,
	FieldIDToken:      true,
	FieldExpiresIn:    true,
	FieldScope:        true,
	FieldState:        true,
}

// Payload is an authorization server response with camel cased keys.
type Payload map[string]any

// Decode parses a token endpoint response body. The body is read as JSON when the
// content type mentions json and as form encoded pairs otherwise.
func Decode(body, contentType string) (Payload, error) {
	if strings.Contains(strings.ToLower(contentType), "json") {
		dec := json.NewDecoder(bytes.NewReader([]byte(body)))
		dec.UseNumber()
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidResponse, "[token.Decode] invalid JSON response (%v)", err)
		}
		if data == nil {
			return nil, fmt.Errorf("[token.Decode] response is not a JSON object: %w", errors.ErrInvalidResponse)
		}
		return Payload(CamelKeys(data)), nil
	}

	params, err := oauthmodel.ParseParams(body)
	if err != nil {
		return nil, errors.Wrapf(err, "[token.Decode] invalid form response")
	}
	return FromParams(params), nil
}

// FromParams converts a form encoded parameter list (a token response body or a
// redirect payload) into a Payload. For repeated names the first value wins.
func FromParams(params oauthmodel.Params) Payload {
	data := make(map[string]any, len(params))
	for _, p := range params {
		if _, exists := data[p.Name]; exists {
			continue
		}
		data[p.Name] = p.Value
	}
	return Payload(CamelKeys(data))
}

// String returns the value under key rendered as a string.
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Error returns the OAuth2 error code and description carried by the payload.
func (p Payload) Error() (code, description string, ok bool) {
	if !p.Has(FieldError) {
		return "", "", false
	}
	return p.String(FieldError), p.String(FieldErrorDescription), true
}

// Options are the request side values needed to normalize a response.
type Options struct {
	// Now is the time of the exchange; ExpiresAt is computed from it.
	Now time.Time
	// RequestedScopes are echoed when the server does not report granted scopes.
	RequestedScopes []string
	// State is the state of the authorization request.
	State string
}

// TokenInfo maps the payload onto the canonical token record.
func (p Payload) TokenInfo(opts Options) *oauth2.TokenInfo {
	info := &oauth2.TokenInfo{
		AccessToken:  p.String(FieldAccessToken),
		TokenType:    p.String(FieldTokenType),
		RefreshToken: p.String(FieldRefreshToken),
		IDToken:      p.String(FieldIDToken),
		State:        opts.State,
	}
	if info.TokenType == "" {
		info.TokenType = oauth2.DefaultTokenType
	}

	expiresIn, ok := p.expiresIn()
	if !ok {
		expiresIn = oauth2.DefaultExpiresIn
		info.ExpiresAssumed = true
	}
	info.ExpiresIn = expiresIn
	info.ExpiresAt = opts.Now.Add(time.Duration(expiresIn) * time.Second)

	info.Scope = p.scope(opts.RequestedScopes)

	for k, v := range p {
		if standardFields[k] {
			continue
		}
		if info.Extra == nil {
			info.Extra = make(map[string]any)
		}
		info.Extra[k] = v
	}
	return info
}

// maxExpiresIn is the largest lifetime in seconds that still fits a time.Duration.
const maxExpiresIn = math.MaxInt64 / int64(time.Second)

func (p Payload) expiresIn() (int64, bool) {
	var f float64
	switch v := p[FieldExpiresIn].(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > float64(maxExpiresIn) {
		return 0, false
	}
	return int64(f), true
}

func (p Payload) scope(requested []string) []string {
	var granted []string
	switch v := p[FieldScope].(type) {
	case string:
		granted = strings.Fields(v)
	case []any:
		granted = utils.ToStringSlice(v)
	}
	if len(granted) > 0 {
		return granted
	}
	if len(requested) > 0 {
		return append([]string(nil), requested...)
	}
	return []string{}
}
