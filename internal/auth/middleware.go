package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// contextKey is unexported so no other package can read or shadow the
// values this package stores in a request context.
type contextKey string

const subjectKey contextKey = "subject"

var errNoBearer = errors.New("auth: missing bearer token")

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token with 401 and stores the token subject (the username) in the
// request context otherwise.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := extractSubject(r, tokens)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			ctx := WithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth stores the subject when a valid token is present and lets
// the request through either way.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subject, err := extractSubject(r, tokens); err == nil {
				r = r.WithContext(WithSubject(r.Context(), subject))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSubject returns a copy of ctx carrying the authenticated username.
// Handler tests use it to skip the token round-trip.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext returns the authenticated username, or ("", false)
// for anonymous requests.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok && s != ""
}

func extractSubject(r *http.Request, tokens *TokenService) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errNoBearer
	}
	return tokens.Validate(strings.TrimSpace(token))
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	var msg string
	switch {
	case errors.Is(err, errNoBearer):
		msg = "Not authenticated"
	case errors.Is(err, ErrTokenExpired):
		msg = "Token has expired"
	case errors.Is(err, ErrTokenNoSubject):
		msg = "Token has no subject"
	default:
		msg = "Could not validate credentials"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": msg})
}
