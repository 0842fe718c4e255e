package middleware

import (
	"context"
	"net/http"
	"strings"

	"PageSchedulerAPI/services"
	"PageSchedulerAPI/utils"
)

// TokenValidator checks a session token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// Auth returns middleware that authenticates requests with the session token.
// The token is read from the session_token cookie (set by the OAuth callback)
// or, for non-browser clients, from an Authorization: Bearer header. On
// success the user and session IDs are placed on the request context under
// the "userID" and "sessionID" keys.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				utils.Debugf("rejected token err=%v", err)
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), "userID", claims.UserID)
			ctx = context.WithValue(ctx, "sessionID", claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("session_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
