package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"PageSchedulerAPI/models"
)

func TestRespondWithAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("post", "x"), http.StatusNotFound},
		{"forbidden", models.NewForbiddenError("not yours"), http.StatusForbidden},
		{"invalid state", models.NewInvalidStateError("too late"), http.StatusBadRequest},
		{"external", models.NewExternalAPIError("Facebook", "down", 0), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondWithAppError(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing the error key")
			}
		})
	}
}

func TestUnknownErrorNeverLeaksDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithAppError(rec, errors.New("pq: connection refused to 10.1.2.3"))

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q, internals leaked", body["error"])
	}
}

func TestRespondWithJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
}
