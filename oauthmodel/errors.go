package oauthmodel

import "errors"

var (
	ErrMissingGrantType        = errors.New("grant type is required")
	ErrMissingAuthorizationURI = errors.New("authorization uri is required")
	ErrMissingAccessTokenURI   = errors.New("access token uri is required")
	ErrMissingRedirectURI      = errors.New("redirect uri is required")
	ErrMissingClientID         = errors.New("client id is required")
	ErrMissingUsername         = errors.New("username is required")
	ErrMissingPassword         = errors.New("password is required")
	ErrMissingDeviceCode       = errors.New("device code is required")
	ErrMissingAssertion        = errors.New("assertion is required")
	ErrInvalidURI              = errors.New("invalid uri")
	ErrInvalidState            = errors.New("state contains reserved characters")
	ErrInvalidDeliveryMethod   = errors.New("invalid delivery method")
)
