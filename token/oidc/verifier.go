package oidc

import (
	"context"
	"crypto"
	"errors"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
)

var ErrNonceMismatch = errors.New("id token nonce does not match the request nonce")

// Verifier checks the signature, issuer, audience and expiry of ID tokens.
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewVerifier discovers the issuer's keys through its OpenID configuration document.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: clientID}),
	}, nil
}

// NewStaticVerifier verifies against a fixed set of public keys.
func NewStaticVerifier(issuer, clientID string, algs []string, publicKeys ...crypto.PublicKey) *Verifier {
	keySet := &gooidc.StaticKeySet{PublicKeys: publicKeys}
	return &Verifier{
		verifier: gooidc.NewVerifier(issuer, keySet, &gooidc.Config{
			ClientID:             clientID,
			SupportedSigningAlgs: algs,
		}),
	}
}

// Verify checks rawIDToken and, when nonce is not empty, that the token carries it.
func (v *Verifier) Verify(ctx context.Context, rawIDToken, nonce string) error {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return fmt.Errorf("id token verification failed: %w", err)
	}
	if nonce != "" && idToken.Nonce != nonce {
		return ErrNonceMismatch
	}
	return nil
}
