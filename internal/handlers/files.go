package handlers

import (
	"fmt"
	"net/http"

	"github.com/caseflow-systems/caseflow/internal/httputil"
)

const maxUploadMemory = 32 << 20 // 32 MiB held in memory before spooling

// UploadFile handles POST /api/cases/{id}/files with a multipart form
// carrying a "file" part and an optional "uploaded_by" value.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	uploadedBy := r.FormValue("uploaded_by")
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment, err := h.svc.UploadFile(r.Context(), r.PathValue("id"), header.Filename, mimeType, uploadedBy, file)
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attachment)
}

// ListFiles handles GET /api/cases/{id}/files.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListFiles(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "Case not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, files)
}

// DownloadFile handles GET /api/files/{id}/download, serving the original
// bytes with the original filename and mime type.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	attachment, path, err := h.svc.GetFile(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, "File not found")
		return
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.OriginalFilename))
	http.ServeFile(w, r, path)
}

// DeleteFile handles DELETE /api/files/{id}.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFile(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, r, err, "File not found")
		return
	}
	httputil.WriteMessage(w, "File deleted successfully")
}
