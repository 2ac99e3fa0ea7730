package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/caseflow-systems/caseflow/internal/httputil"
	"github.com/caseflow-systems/caseflow/internal/models"
)

// CreateCase handles POST /api/cases.
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req models.CaseCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	c, err := h.svc.CreateCase(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// ListCases handles GET /api/cases with filter, search, and pagination
// query parameters.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseIntParam(q.Get("limit"), 50)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}
	offset, err := parseIntParam(q.Get("offset"), 0)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid offset parameter")
		return
	}

	filter := models.CaseFilter{
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssignedTo: q.Get("assigned_to"),
		CreatedBy:  q.Get("created_by"),
		Search:     q.Get("search"),
		Limit:      limit,
		Offset:     offset,
	}

	if filter.Status != "" && !models.ValidCaseStatus(filter.Status) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filter.Priority != "" && !models.ValidCasePriority(filter.Priority) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid priority filter")
		return
	}
	if filter.Limit > 100 {
		httputil.WriteError(w, http.StatusBadRequest, "limit must be at most 100")
		return
	}
	if filter.Offset < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "offset must be non-negative")
		return
	}

	cases, err := h.svc.ListCases(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cases)
}

// GetCase handles GET /api/cases/{id}.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCase(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// UpdateCase handles PUT /api/cases/{id}.
func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	var req models.CaseUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.svc.UpdateCase(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// DeleteCase handles DELETE /api/cases/{id}.
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCase(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteMessage(w, "Case deleted successfully")
}

func parseIntParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
