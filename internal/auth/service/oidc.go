package service

import (
	"context"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

// oidcVerifier validates third-party ID tokens against the issuer's
// JWKS. Provider discovery needs the network, so it happens on first
// use rather than at startup.
type oidcVerifier struct {
	issuer   string
	clientID string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func newOIDCVerifier(issuer, clientID string) *oidcVerifier {
	return &oidcVerifier{issuer: issuer, clientID: clientID}
}

func (v *oidcVerifier) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	verifier, err := v.get(ctx)
	if err != nil {
		return "", err
	}

	idToken, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (v *oidcVerifier) get(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verifier != nil {
		return v.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, err
	}
	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.clientID})
	return v.verifier, nil
}
