package auth

import "fmt"

// Error codes sent by authorization servers (RFC 6749 sections 4.1.2.1 and 5.2,
// OpenID Connect Core section 3.1.2.6).
const (
	CodeInteractionRequired  = "interaction_required"
	CodeInvalidRequest       = "invalid_request"
	CodeInvalidClient        = "invalid_client"
	CodeInvalidGrant         = "invalid_grant"
	CodeUnauthorizedClient   = "unauthorized_client"
	CodeUnsupportedGrantType = "unsupported_grant_type"
	CodeInvalidScope         = "invalid_scope"
)

// Error codes raised by the authorizer itself.
const (
	CodeNoState        = "no_state"
	CodeInvalidState   = "invalid_state"
	CodeNoCode         = "no_code"
	CodeNoResponse     = "no_response"
	CodePopupBlocked   = "popup_blocked"
	CodePopupError     = "popup_error"
	CodeRequestError   = "request_error"
	CodeUnknownState   = "unknown_state"
	CodeInvalidConfig  = "invalid_config"
	CodeNoToken        = "no_token"
	CodeInvalidIDToken = "invalid_id_token"
)

const unknownErrorMessage = "Unknown error"

var serverErrorMessages = map[string]string{
	CodeInteractionRequired:  "The request requires user interaction.",
	CodeInvalidRequest:       "The request is missing a required parameter.",
	CodeInvalidClient:        "Client authentication failed.",
	CodeInvalidGrant:         "The provided authorization grant or refresh token is invalid, expired, revoked, does not match the redirection URI used in the authorization request, or was issued to another client.",
	CodeUnauthorizedClient:   "The authenticated client is not authorized to use this authorization grant type.",
	CodeUnsupportedGrantType: "The authorization grant type is not supported by the authorization server.",
	CodeInvalidScope:         "The requested scope is invalid, unknown, malformed, or exceeds the scope granted by the resource owner.",
}

var authorizerErrorMessages = map[string]string{
	CodeNoState:        "Server did not return the state parameter.",
	CodeInvalidState:   "The state value returned by the authorization server is invalid.",
	CodeNoCode:         "The authorization server did not return the authorization code.",
	CodeNoResponse:     "No response has been recorded.",
	CodePopupBlocked:   "Authorization popup is being blocked.",
	CodePopupError:     "Unable to read the authorization server response.",
	CodeUnknownState:   "The authorization process has an invalid state. This should never happen.",
	CodeNoToken:        "The authorization server did not return an access token.",
	CodeInvalidIDToken: "The ID token could not be verified.",
}

// Sentinels for errors.Is. Matching is by Code only.
var (
	ErrNoState        = &AuthorizationError{Code: CodeNoState}
	ErrInvalidState   = &AuthorizationError{Code: CodeInvalidState}
	ErrNoCode         = &AuthorizationError{Code: CodeNoCode}
	ErrNoResponse     = &AuthorizationError{Code: CodeNoResponse}
	ErrPopupBlocked   = &AuthorizationError{Code: CodePopupBlocked}
	ErrPopupError     = &AuthorizationError{Code: CodePopupError}
	ErrRequestError   = &AuthorizationError{Code: CodeRequestError}
	ErrUnknownState   = &AuthorizationError{Code: CodeUnknownState}
	ErrInvalidConfig  = &AuthorizationError{Code: CodeInvalidConfig}
	ErrNoToken        = &AuthorizationError{Code: CodeNoToken}
	ErrInvalidIDToken = &AuthorizationError{Code: CodeInvalidIDToken}

	ErrInteractionRequired  = &AuthorizationError{Code: CodeInteractionRequired}
	ErrInvalidRequest       = &AuthorizationError{Code: CodeInvalidRequest}
	ErrInvalidClient        = &AuthorizationError{Code: CodeInvalidClient}
	ErrInvalidGrant         = &AuthorizationError{Code: CodeInvalidGrant}
	ErrUnauthorizedClient   = &AuthorizationError{Code: CodeUnauthorizedClient}
	ErrUnsupportedGrantType = &AuthorizationError{Code: CodeUnsupportedGrantType}
	ErrInvalidScope         = &AuthorizationError{Code: CodeInvalidScope}
)

// AuthorizationError is the failure outcome of an authorization attempt.
type AuthorizationError struct {
	// Code is a server error code (e.g. "invalid_grant") or one of the authorizer codes above.
	Code string
	// Message is the human readable description.
	Message string
	// State is the state of the request the error belongs to.
	State string
	// ServerState is the state the server returned. Set only for invalid_state.
	ServerState string
	// Status is the HTTP status of the token endpoint response, when there was one.
	Status int

	cause error
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuthorizationError) Unwrap() error {
	return e.cause
}

// Is matches any *AuthorizationError with the same Code.
func (e *AuthorizationError) Is(target error) bool {
	t, ok := target.(*AuthorizationError)
	return ok && t.Code == e.Code
}

// ServerErrorMessage returns the description for a server error code, or
// "Unknown error" for codes outside the OAuth2 taxonomy.
func ServerErrorMessage(code string) string {
	if msg, ok := serverErrorMessages[code]; ok {
		return msg
	}
	return unknownErrorMessage
}

// newServerError maps an error reported by the authorization server. The server's
// own description is kept when present.
func newServerError(code, description, state string) *AuthorizationError {
	msg := description
	if msg == "" {
		msg = ServerErrorMessage(code)
	}
	return &AuthorizationError{Code: code, Message: msg, State: state}
}

// newError creates an authorizer error. An empty message takes the code's default.
func newError(code, message, state string, cause error) *AuthorizationError {
	if message == "" {
		message = authorizerErrorMessages[code]
	}
	return &AuthorizationError{Code: code, Message: message, State: state, cause: cause}
}
