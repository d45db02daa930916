package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/auth"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authenticate stores the claims of a valid bearer token in the request
// context. A missing or invalid token leaves the request anonymous; route
// gates decide whether that is acceptable.
func Authenticate(tokens TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				slog.Debug("ignoring invalid bearer token",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects requests whose token is missing or not an admin's.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil || !claims.IsAdmin {
			apperr.WriteJSON(w, apperr.Unauthorized(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the claims stored by Authenticate, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
