package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"PageSchedulerAPI/models"
	"PageSchedulerAPI/utils"

	"github.com/gorilla/mux"
)

// CreatePost schedules a post for the selected pages. The scheduled time is
// RFC 3339.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	scheduledTime, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "scheduled_time must be RFC 3339")
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.OriginalText, req.SelectedPages, scheduledTime)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"post": post})
}

func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	posts, err := h.posts.List(userID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	postID := mux.Vars(r)["id"]

	post, err := h.posts.GetByID(postID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if post.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}

// CancelPost cancels a scheduled post, best-effort deleting the external
// copies first.
func (h *Handler) CancelPost(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	postID := mux.Vars(r)["id"]

	if err := h.posts.Cancel(r.Context(), postID, userID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Post cancelled"})
}

// GenerateVariations returns count rewrites of the submitted text.
func (h *Handler) GenerateVariations(w http.ResponseWriter, r *http.Request) {
	var req models.VariationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.OriginalText == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "original_text is required")
		return
	}
	if req.Count <= 0 {
		req.Count = 3
	}

	variations := h.openai.GenerateVariations(r.Context(), req.OriginalText, req.Count)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"variations": variations})
}

// AnalyzeContent returns a freeform quality report on the submitted text.
func (h *Handler) AnalyzeContent(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "content is required")
		return
	}

	analysis := h.openai.AnalyzeContent(r.Context(), req.Content)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"analysis": analysis})
}
