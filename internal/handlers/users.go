package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caseflow-systems/caseflow/internal/httputil"
	"github.com/caseflow-systems/caseflow/internal/models"
)

// CreateUser handles POST /api/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" {
		httputil.WriteError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.svc.CreateUser(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, r, err, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
