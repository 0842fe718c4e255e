package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"PageSchedulerAPI/services"
)

type stubValidator struct {
	claims *services.Claims
	err    error
}

func (v *stubValidator) ValidateToken(tokenString string) (*services.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func authProbe(t *testing.T) (http.Handler, *string, *string) {
	t.Helper()
	var userID, sessionID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ = r.Context().Value("userID").(string)
		sessionID, _ = r.Context().Value("sessionID").(string)
		w.WriteHeader(http.StatusOK)
	})
	return inner, &userID, &sessionID
}

func TestAuthRejectsMissingToken(t *testing.T) {
	inner, _, _ := authProbe(t)
	handler := Auth(&stubValidator{})(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	inner, _, _ := authProbe(t)
	handler := Auth(&stubValidator{err: errors.New("expired")})(inner)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthAcceptsSessionCookie(t *testing.T) {
	inner, userID, sessionID := authProbe(t)
	handler := Auth(&stubValidator{claims: &services.Claims{UserID: "u1", SessionID: "s1"}})(inner)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "good"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *userID != "u1" || *sessionID != "s1" {
		t.Errorf("context ids = %q/%q, want u1/s1", *userID, *sessionID)
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	inner, userID, _ := authProbe(t)
	handler := Auth(&stubValidator{claims: &services.Claims{UserID: "u2", SessionID: "s2"}})(inner)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *userID != "u2" {
		t.Errorf("userID = %q, want u2", *userID)
	}
}
