package oauthmodel

import "golang.org/x/oauth2"

// PKCE holds a code verifier and its derived S256 challenge.
type PKCE struct {
	Verifier  string
	Challenge string
}

// NewPKCE generates a random 32 octet verifier and its BASE64URL(SHA256(verifier)) challenge.
func NewPKCE() PKCE {
	verifier := oauth2.GenerateVerifier()
	return PKCE{
		Verifier:  verifier,
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
	}
}
