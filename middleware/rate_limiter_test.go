package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func limitedRouter(rl *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(rl.Limit())
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimiterExhaustsBurst(t *testing.T) {
	router := limitedRouter(NewRateLimiter(0.001, 3))

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
		if i < 3 && rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked inside burst: %d", i, rec.Code)
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("request past burst = %d, want 429", last)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	router := limitedRouter(NewRateLimiter(0.001, 1))

	first := httptest.NewRequest("GET", "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client blocked: %d", rec.Code)
	}

	// A different client has its own bucket.
	second := httptest.NewRequest("GET", "/ping", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("second client shares first client's bucket: %d", rec.Code)
	}
}

func TestClientIPPrefersProxyHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"

	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("clientIP = %q, want remote addr host", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %q, want first forwarded hop", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.9")
	if got := clientIP(req); got != "198.51.100.9" {
		t.Errorf("clientIP = %q, want X-Real-IP", got)
	}
}
