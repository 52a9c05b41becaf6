package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var (
	// ErrIdentityInvalid means the ID token failed signature, audience,
	// expiry or issuer checks.
	ErrIdentityInvalid = errors.New("auth: invalid identity token")

	// ErrIdentityNoEmail means the token was valid but carried no email.
	ErrIdentityNoEmail = errors.New("auth: identity token has no email")
)

// googleIssuers are the two "iss" values Google puts in ID tokens.
var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Identity is what the service layer needs from an external sign-in.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier turns an identity-provider token into an Identity.
// The auth service depends on this interface so tests can fake it.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens issued for clientID.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

// NewGoogleVerifier returns a verifier for tokens whose audience is clientID.
// Google's signing keys are fetched and cached by the idtoken package.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

// Verify validates the token and extracts email, name and picture.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", ErrIdentityInvalid)
	}

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityInvalid, err)
	}
	if !googleIssuers[payload.Issuer] {
		return nil, fmt.Errorf("%w: wrong issuer %q", ErrIdentityInvalid, payload.Issuer)
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, ErrIdentityNoEmail
	}

	return &Identity{
		Email:   email,
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}
