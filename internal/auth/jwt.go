// Package auth provides token, password and identity-provider primitives
// used by the service layer and the HTTP middleware.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs credentials to /api/login (or a Google ID token to
//     /api/login/google)
//  2. The auth service verifies them and issues a JWT access token
//  3. Client sends it back as "Authorization: Bearer <token>"
//  4. RequireAuth validates the JWT and puts the username in the request
//     context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"<username>","iss":"trace","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL is how long an issued access token stays valid.
	AccessTokenTTL = 30 * time.Minute

	issuer = "trace"
)

// Validation failures. Callers branch on these with errors.Is to produce
// distinct 401 messages.
var (
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenInvalid   = errors.New("auth: invalid token")
	ErrTokenNoSubject = errors.New("auth: token has no subject")
)

// TokenService handles JWT creation and validation with a shared HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), ttl: AccessTokenTTL}, nil
}

// claims is the JWT payload. "sub" carries the username.
type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a new access token for username with the default lifetime.
func (s *TokenService) Generate(username string) (string, error) {
	return s.GenerateWithDuration(username, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime. Tests use a
// negative duration to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its subject.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid
//   - Token is not expired, and carries an expiry at all
//   - Issuer is "trace"
//   - Algorithm is HS256 (blocks "alg":"none" and RS/HS confusion)
//
// Failures wrap ErrTokenExpired, ErrTokenInvalid or ErrTokenNoSubject.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}

	if c.Subject == "" {
		return "", ErrTokenNoSubject
	}

	return c.Subject, nil
}
