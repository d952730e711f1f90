// Package auth verifies bearer tokens issued by the external identity
// provider and carries the authenticated principal through the request
// context. This application never issues or refreshes tokens itself; it only
// validates what the provider signed.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/config"
)

// Claims is the expected token payload from the identity provider.
// Subject carries the provider's opaque stable identifier for the user.
type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"picture"`
	jwt.RegisteredClaims
}

// Middleware verifies the Authorization header and adds the authenticated
// principal to the request context. Requests without a valid token get 401.
func Middleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}

			if claims.Subject == "" {
				WriteError(w, r, apperror.NewAuthError("invalid token: subject claim is missing", nil))
				return
			}
			if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
				WriteError(w, r, apperror.NewAuthError("invalid token: unexpected issuer", nil))
				return
			}

			principal := &Principal{
				ExternalID: claims.Subject,
				Email:      strings.ToLower(claims.Email),
				Name:       claims.Name,
				AvatarURL:  claims.AvatarURL,
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithPrincipal(r.Context(), principal)))
		})
	}
}
