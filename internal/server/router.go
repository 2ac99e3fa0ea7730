// Package server assembles the HTTP router and middleware chain.
package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caseflow-systems/caseflow/internal/handlers"
	"github.com/caseflow-systems/caseflow/internal/metrics"
	"github.com/caseflow-systems/caseflow/internal/middleware"
)

// NewRouter constructs the API router with all routes registered and the
// CORS, request-ID, and metrics middleware applied.
func NewRouter(h *handlers.Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /api/users", h.CreateUser)
	mux.HandleFunc("GET /api/users", h.ListUsers)
	mux.HandleFunc("GET /api/users/{id}", h.GetUser)

	// Cases
	mux.HandleFunc("POST /api/cases", h.CreateCase)
	mux.HandleFunc("GET /api/cases", h.ListCases)
	mux.HandleFunc("GET /api/cases/{id}", h.GetCase)
	mux.HandleFunc("PUT /api/cases/{id}", h.UpdateCase)
	mux.HandleFunc("DELETE /api/cases/{id}", h.DeleteCase)

	// Comments
	mux.HandleFunc("POST /api/cases/{id}/comments", h.CreateComment)
	mux.HandleFunc("GET /api/cases/{id}/comments", h.ListComments)
	mux.HandleFunc("PUT /api/comments/{id}", h.UpdateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", h.DeleteComment)

	// Files
	mux.HandleFunc("POST /api/cases/{id}/files", h.UploadFile)
	mux.HandleFunc("GET /api/cases/{id}/files", h.ListFiles)
	mux.HandleFunc("GET /api/files/{id}/download", h.DownloadFile)
	mux.HandleFunc("DELETE /api/files/{id}", h.DeleteFile)

	// Alerts
	mux.HandleFunc("POST /api/alerts", h.CreateAlert)
	mux.HandleFunc("GET /api/alerts", h.ListAlerts)
	mux.HandleFunc("GET /api/alerts/{id}", h.GetAlert)
	mux.HandleFunc("PUT /api/alerts/{id}/acknowledge", h.AcknowledgeAlert)
	mux.HandleFunc("PUT /api/alerts/{id}/complete", h.CompleteAlert)
	mux.HandleFunc("POST /api/alerts/{id}/create-case", h.CreateCaseFromAlert)

	// Operational
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	return middleware.RequestID(cors(instrument(mux)))
}

// instrument records per-request counters.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
