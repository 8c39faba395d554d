package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	Iservices "expert-finder/internal/domain/interfaces/services"
	"expert-finder/internal/infra/logger"
)

type contextKey string

const claimsContextKey contextKey = "apiTokenClaims"

// AuthMiddleware validates the bearer credential issued to the web tab
// and injects its identity claims into the request context.
func AuthMiddleware(log *logger.Logger, tokenService Iservices.ITokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokenService.ValidateAPIToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Info(fmt.Sprintf("Rejected api token: %v", err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware, or nil
// when the request did not pass through it.
func ClaimsFromContext(ctx context.Context) *Iservices.APITokenClaims {
	claims, _ := ctx.Value(claimsContextKey).(*Iservices.APITokenClaims)
	return claims
}
