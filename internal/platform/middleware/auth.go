package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"datagov/internal/access"
	"datagov/pkg/requestcontext"
)

// JWTVerifier validates bearer tokens and extracts the actor and role
// claims that drive dataset access control.
type JWTVerifier struct {
	signingKey []byte
}

// NewJWTVerifier creates a verifier over an HMAC signing key.
func NewJWTVerifier(signingKey string) *JWTVerifier {
	return &JWTVerifier{signingKey: []byte(signingKey)}
}

// Verify parses the token and returns (actor, role).
func (v *JWTVerifier) Verify(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}
	actor, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if actor == "" || role == "" {
		return "", "", fmt.Errorf("token missing sub or role claim")
	}
	return actor, role, nil
}

// RequireAuth authenticates the request, by bearer token or by service
// account API key, and injects actor and role into the context. Requests
// with neither credential are rejected.
func RequireAuth(verifier *JWTVerifier, accounts *access.Accounts, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				actor, role, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
				if err != nil {
					logger.WarnContext(ctx, "rejected bearer token",
						"error", err.Error(),
						"request_id", requestcontext.RequestID(ctx),
					)
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}
				ctx = requestcontext.WithActor(ctx, actor)
				ctx = requestcontext.WithRole(ctx, role)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if name := r.Header.Get("X-Service-Account"); name != "" && accounts != nil {
				role, err := accounts.Authenticate(name, r.Header.Get("X-API-Key"))
				if err != nil {
					logger.WarnContext(ctx, "rejected service account",
						"account", name,
						"request_id", requestcontext.RequestID(ctx),
					)
					http.Error(w, "invalid credentials", http.StatusUnauthorized)
					return
				}
				ctx = requestcontext.WithActor(ctx, name)
				ctx = requestcontext.WithRole(ctx, role)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			http.Error(w, "authentication required", http.StatusUnauthorized)
		})
	}
}
