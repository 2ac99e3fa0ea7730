package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caseflow-systems/caseflow/internal/httputil"
	"github.com/caseflow-systems/caseflow/internal/models"
)

// CreateComment handles POST /api/cases/{id}/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		httputil.WriteError(w, http.StatusBadRequest, "content is required")
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comment)
}

// ListComments handles GET /api/cases/{id}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comments)
}

// UpdateComment handles PUT /api/comments/{id}.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		httputil.WriteError(w, http.StatusBadRequest, "content is required")
		return
	}

	comment, err := h.svc.UpdateComment(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		h.respondError(w, r, err, "Comment not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/{id}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, r, err, "Comment not found")
		return
	}
	httputil.WriteMessage(w, "Comment deleted successfully")
}
