package handlers

import (
	"net/http"

	"PageSchedulerAPI/utils"
)

// GetPages returns the authenticated user's authorized pages.
func (h *Handler) GetPages(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	user, err := h.users.GetByID(userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"pages": user.Pages})
}

// RefreshPages re-fetches the page list from Facebook and replaces the
// stored one wholesale.
func (h *Handler) RefreshPages(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	user, err := h.authService.RefreshUserPages(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"pages": user.Pages})
}
