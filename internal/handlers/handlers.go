// Package handlers maps HTTP requests onto service operations and service
// errors onto the 404/400/500 taxonomy. Every error response carries a
// JSON body with a human-readable "detail" field.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/caseflow-systems/caseflow/internal/httputil"
	"github.com/caseflow-systems/caseflow/internal/logging"
	"github.com/caseflow-systems/caseflow/internal/service"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// Handler holds the service and logger shared by all routes.
type Handler struct {
	svc *service.Service
	log *logging.Logger
}

// New creates a Handler.
func New(svc *service.Service, log *logging.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// respondError translates a service error into an HTTP response. notFound is
// the detail message used when the underlying record does not exist.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPriority):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "storage operation failed", "path", r.URL.Path, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// Health reports backend reachability: 200 when the storage backend
// responds to a ping, 503 otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Store().Ping(r.Context()); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"detail": err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  h.svc.Store().Name(),
		"timestamp": time.Now().UTC(),
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err, "Stats not available")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
