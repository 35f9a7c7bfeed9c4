package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/catalog-import/internal/product"
	"github.com/JonMunkholm/catalog-import/internal/storage"
)

// maxHistoryLimit caps the limit query parameter of /api/imports.
const maxHistoryLimit = 500

// handleListRuns returns recent import runs, newest first.
//
//	GET /api/imports?limit=20
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := storage.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit " + strconv.Quote(v),
				Message: "Invalid limit", Code: "REQ003", Action: "Use a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	runs, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []storage.ImportRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns one run including its failed rows.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := s.history.Get(r.Context(), runID)
	if errors.Is(err, product.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(),
			Message: "Import run not found", Code: "REQ004", Action: "Check the run id"})
		return
	}
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
