// backend-go/internal/drive/handler.go
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler exposes the Drive fallback over HTTP for the ingest tool:
// inspecting the spreadsheet file, exporting it, and forcing a reload.
type Handler struct {
	service  *Service
	exporter *Exporter

	// Refresh triggers a full dataset reload from the exported workbook.
	Refresh func(ctx context.Context) error
}

func NewHandler(service *Service, exporter *Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/{fileId}", h.FileInfo).Methods("GET")
	router.HandleFunc("/api/drive/export/{fileId}", h.Export).Methods("GET")
	router.HandleFunc("/api/drive/refresh", h.ForceRefresh).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")

	files, err := h.service.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, files)
}

func (h *Handler) FileInfo(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	f, err := h.service.GetFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, f)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	raw, err := h.service.ExportSpreadsheet(r.Context(), fileID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxMimeType)
	w.Header().Set("Content-Disposition", "attachment; filename=dashboard.xlsx")
	w.Write(raw)
}

func (h *Handler) ForceRefresh(w http.ResponseWriter, r *http.Request) {
	h.exporter.Invalidate()

	if h.Refresh != nil {
		if err := h.Refresh(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("refresh failed: %v", err), http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, map[string]string{"status": "success", "message": "Workbook export invalidated and dataset reloaded"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
