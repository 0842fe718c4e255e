package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"PageSchedulerAPI/utils"
)

const sessionCookieName = "session_token"

// InitiateFacebookLogin starts the OAuth flow. This is the login entry point,
// so it is unauthenticated; the state token ties the callback to this server.
func (h *Handler) InitiateFacebookLogin(w http.ResponseWriter, r *http.Request) {
	state := h.oauthStateService.GenerateState()
	http.Redirect(w, r, h.authService.AuthURL(state), http.StatusFound)
}

// HandleFacebookCallback completes the OAuth flow: validates state, exchanges
// the code, upserts the user with their pages, and sets the session cookie.
func (h *Handler) HandleFacebookCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	utils.Infof("received oauth callback remote=%s has_code=%t has_state=%t has_error=%t",
		r.RemoteAddr, code != "", state != "", errorParam != "")

	if errorParam != "" {
		errorDesc := r.URL.Query().Get("error_description")
		utils.Warnf("user denied or OAuth error error=%s description=%s", errorParam, errorDesc)
		http.Redirect(w, r, fmt.Sprintf("/oauth/error?error=%s&description=%s",
			errorParam, url.QueryEscape(errorDesc)), http.StatusFound)
		return
	}

	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	if !h.oauthStateService.ValidateState(state) {
		utils.Warnf("invalid or expired oauth state")
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid or expired state token. Please try logging in again.")
		return
	}

	user, sessionToken, err := h.authService.HandleCallback(r.Context(), code)
	if err != nil {
		utils.Errorf("facebook login failed err=%v", err)
		http.Redirect(w, r, fmt.Sprintf("/oauth/error?error=login_failed&description=%s",
			url.QueryEscape(err.Error())), http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.Infof("login success user_id=%s", user.ID)
	http.Redirect(w, r, "/oauth/success?platform=facebook", http.StatusFound)
}

// Logout drops the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := r.Context().Value("sessionID").(string)
	if sessionID != "" {
		if err := h.authService.Logout(sessionID); err != nil {
			utils.Warnf("failed to delete session session_id=%s err=%v", sessionID, err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetCurrentUser returns the authenticated user's profile and page list.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	user, err := h.users.GetByID(userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
