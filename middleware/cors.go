package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// CORSConfig describes which cross-origin requests the dashboard frontend is
// allowed to make. The session cookie means AllowCredentials is normally on,
// which in turn means AllowedOrigins must be explicit (no wildcard).
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           string // Access-Control-Max-Age, seconds
}

// DefaultCORSConfig covers the methods and headers the API surface uses.
// AllowedOrigins must be set by the caller.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           "86400",
	}
}

// CORS sets CORS headers for allow-listed origins and answers preflight
// OPTIONS requests with 204. A "*" entry reflects every origin but drops
// Allow-Credentials, since browsers refuse credentials with a wildcard.
func CORS(cfg CORSConfig) mux.MiddlewareFunc {
	allowAll := false
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				switch {
				case allowAll:
					w.Header().Set("Access-Control-Allow-Origin", origin)
				case allowed[strings.TrimRight(origin, "/")]:
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				default:
					// Unknown origin: no CORS headers, the browser blocks it.
					if r.Method == http.MethodOptions {
						w.WriteHeader(http.StatusForbidden)
						return
					}
					next.ServeHTTP(w, r)
					return
				}

				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge != "" {
					w.Header().Set("Access-Control-Max-Age", cfg.MaxAge)
				}
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
