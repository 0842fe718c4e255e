package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// BodyLimit caps every request body at maxBytes using http.MaxBytesReader,
// so oversized payloads fail at the first read. Post bodies here are short
// text, so a small global cap is enough.
func BodyLimit(maxBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
