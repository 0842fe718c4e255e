package handlers

import (
	"net/http"

	"PageSchedulerAPI/utils"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
