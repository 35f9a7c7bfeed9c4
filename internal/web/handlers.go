package web

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/catalog-import/internal/importer"
	"github.com/JonMunkholm/catalog-import/internal/product"
)

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Imports  importer.LimiterStatus `json:"imports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Imports:  s.importer.Limiter().Status(),
	}
	status := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = product.MapError(err).Message
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

// CallbacksResponse is returned by /api/callbacks.
type CallbacksResponse struct {
	Mappings   map[string][]string `json:"mappings"`
	Registered []string            `json:"registered"`
}

// handleCallbacks reports the callback mapping an import would run with.
func (s *Server) handleCallbacks(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.importer.CallbackMappings(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, CallbacksResponse{
		Mappings:   mappings.All(),
		Registered: product.CallbackIDs(),
	})
}

// handleImport runs a CSV import. The file is either the raw request body or
// the "file" part of a multipart form. Query parameters:
//
//	filename  name used in logs and failed-row reports (default: upload.csv)
//	mode      add-update, delete or replace (default: configured mode)
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	im := s.importer
	if m := r.URL.Query().Get("mode"); m != "" {
		mode, err := importer.ParseMode(m)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Message: "Unknown import mode", Code: "REQ001",
				Action: "Use one of: add-update, delete, replace"})
			return
		}
		im = im.WithMode(mode)
	}

	if s.importCf.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.importCf.MaxFileSize)
	}

	body, filename, err := importBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Message: "No file provided", Code: "REQ002",
			Action: "Send the CSV as the request body or as the file field of a multipart form"})
		return
	}
	defer body.Close()
	if q := r.URL.Query().Get("filename"); q != "" {
		filename = q
	}
	filename = filepath.Base(filename)

	ctx := r.Context()
	if s.importCf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.importCf.Timeout)
		defer cancel()
	}

	result, err := im.Run(ctx, filename, body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "10")
		}
		respondImportError(w, r, err, status, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func importBody(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, "upload.csv", nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}
