package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mr-dj06/Bandhu-AI/pkg/utils"
)

type contextKey struct{}

// AdminFromContext returns the admin username placed by Middleware, or ""
// when the request was not authenticated.
func AdminFromContext(ctx context.Context) string {
	username, _ := ctx.Value(contextKey{}).(string)
	return username
}

// extractBearerToken pulls the token out of an Authorization header.
// The second return is an error message, empty on success.
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Middleware guards admin endpoints. Requests without a verifiable, unexpired
// bearer token are rejected with 401 before any handler or storage access.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
		if errMsg != "" {
			utils.RespondError(w, http.StatusUnauthorized, errMsg)
			return
		}

		username, err := s.Authorize(token)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
