package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caseflow-systems/caseflow/internal/httputil"
	"github.com/caseflow-systems/caseflow/internal/models"
)

// CreateAlert handles POST /api/alerts.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req models.AlertCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	alert, err := h.svc.CreateAlert(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alert)
}

// ListAlerts handles GET /api/alerts with status and severity filters.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.ListAlerts(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("severity"))
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alerts)
}

// GetAlert handles GET /api/alerts/{id}.
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.GetAlert(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alert)
}

// AcknowledgeAlert handles PUT /api/alerts/{id}/acknowledge.
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.AcknowledgeAlert(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alert)
}

// CompleteAlert handles PUT /api/alerts/{id}/complete.
func (h *Handler) CompleteAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.svc.CompleteAlert(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alert)
}

// CreateCaseFromAlert handles POST /api/alerts/{id}/create-case.
func (h *Handler) CreateCaseFromAlert(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCaseFromAlert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.svc.CreateCaseFromAlert(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.respondError(w, r, err, "Alert not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
