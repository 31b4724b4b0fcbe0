package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-authorizer/auth"
	"github.com/jrsteele09/go-oauth-authorizer/capture/capturefakes"
	"github.com/jrsteele09/go-oauth-authorizer/oauth2"
	"github.com/jrsteele09/go-oauth-authorizer/oauthmodel"
)

const (
	testClientID         = "test-client-1"
	testClientSecret     = "test-secret-1"
	testAuthorizationURI = "https://auth.example.com/authorize"
	testRedirectURI      = "http://localhost:3000/callback"
	testState            = "random-state-value"
	testUsername         = "john.doe@example.com"
	testPassword         = "password123"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// recordedRequest is a request received by the fake token endpoint.
type recordedRequest struct {
	Method string
	Query  url.Values
	Header http.Header
	Body   string
	Form   url.Values
}

// testFixture holds all test dependencies
type testFixture struct {
	server     *httptest.Server
	capture    *capturefakes.Adapter
	authorizer *auth.Authorizer

	mu       sync.Mutex
	handler  http.HandlerFunc
	requests []recordedRequest
}

// setupTestFixture creates a token endpoint, a scripted capture and an Authorizer wired to both.
func setupTestFixture(t *testing.T, options ...auth.AuthorizerOption) *testFixture {
	t.Helper()

	f := &testFixture{capture: &capturefakes.Adapter{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method: r.Method,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
			Form:   form,
		})
		handler := f.handler
		f.mu.Unlock()

		if handler == nil {
			http.Error(w, "no handler", http.StatusInternalServerError)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	opts := []auth.AuthorizerOption{
		auth.WithCapture(f.capture),
		auth.WithNowTime(func() time.Time { return fixedNow }),
		auth.WithLogger(zerolog.Nop()),
	}
	f.authorizer = auth.New(append(opts, options...)...)
	return f
}

func (f *testFixture) tokenURI() string {
	return f.server.URL + "/token"
}

func (f *testFixture) respond(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = h
}

func (f *testFixture) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *testFixture) implicitConfig() *oauthmodel.AuthorizationConfig {
	return &oauthmodel.AuthorizationConfig{
		GrantType:        oauth2.ImplicitGrant,
		ClientID:         testClientID,
		ClientSecret:     testClientSecret,
		AuthorizationURI: testAuthorizationURI,
		RedirectURI:      testRedirectURI,
		Scopes:           []string{"openid", "profile"},
		State:            testState,
	}
}

func (f *testFixture) codeConfig() *oauthmodel.AuthorizationConfig {
	cfg := f.implicitConfig()
	cfg.GrantType = oauth2.AuthorizationCodeGrant
	cfg.AccessTokenURI = f.tokenURI()
	return cfg
}

func (f *testFixture) clientCredentialsConfig() *oauthmodel.AuthorizationConfig {
	return &oauthmodel.AuthorizationConfig{
		GrantType:      oauth2.ClientCredentialsGrant,
		ClientID:       testClientID,
		ClientSecret:   testClientSecret,
		AccessTokenURI: f.tokenURI(),
		Scopes:         []string{"read", "write"},
		State:          testState,
	}
}

func jsonResponse(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func rawResponse(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// requireAuthError asserts err is an *auth.AuthorizationError with the given code.
func requireAuthError(t *testing.T, err error, code string) *auth.AuthorizationError {
	t.Helper()
	require.Error(t, err)
	var authErr *auth.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, code, authErr.Code, authErr.Message)
	return authErr
}
