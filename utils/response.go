package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"PageSchedulerAPI/models"
)

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithAppError maps the error taxonomy onto HTTP statuses and the
// uniform {"error": message} shape. Unrecognized errors become a 500 without
// leaking internals.
func RespondWithAppError(w http.ResponseWriter, err error) {
	var (
		validation   *models.ValidationError
		notFound     *models.NotFoundError
		forbidden    *models.ForbiddenError
		invalidState *models.InvalidStateError
		external     *models.ExternalAPIError
	)

	switch {
	case errors.As(err, &validation):
		RespondWithError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		RespondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &forbidden):
		RespondWithError(w, http.StatusForbidden, forbidden.Message)
	case errors.As(err, &invalidState):
		RespondWithError(w, http.StatusBadRequest, invalidState.Message)
	case errors.As(err, &external):
		RespondWithError(w, http.StatusInternalServerError, external.Error())
	default:
		Errorf("unexpected error: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
