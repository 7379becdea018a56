package httpinterface

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// authenticate extracts the caller address from the bearer token subject.
// Tokens are HS256 signed with the daemon's auth secret.
func (s *Service) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(
			tokenString, claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return s.authSecret, nil
			},
		)
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		subject, _ := claims["sub"].(string)
		if subject == "" {
			writeError(w, http.StatusUnauthorized, "token subject required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identity returns the authenticated caller address.
func identity(r *http.Request) string {
	id, _ := r.Context().Value(identityKey).(string)
	return id
}
