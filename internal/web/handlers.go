package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/logging"
	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

// Form field names accepted by the API.
const (
	formFiles        = "files"
	formSelectedRows = "selected_rows"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeTSV  = "text/tab-separated-values; charset=utf-8"
	exportBaseName  = "schedule"
)

// scheduleResponse is the body of every endpoint that returns the collection.
type scheduleResponse struct {
	SessionID string            `json:"session_id,omitempty"`
	Columns   []string          `json:"columns"`
	Count     int               `json:"count"`
	Records   []schedule.Record `json:"records"`
}

func newScheduleResponse(id string, records []schedule.Record) scheduleResponse {
	if records == nil {
		records = []schedule.Record{}
	}
	return scheduleResponse{
		SessionID: id,
		Columns:   schedule.Columns,
		Count:     len(records),
		Records:   records,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uploads": s.service.UploadLimiterStatus(),
	})
}

// handleUpload parses the multipart "files" field and merges the records into
// the caller's collection.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrNoFiles, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	sources := uploadSources(r.MultipartForm.File[formFiles])

	sessionID := core.SessionIDFromContext(r.Context())
	result, err := s.service.Ingest(r.Context(), sessionID, sources)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if result.Added == 0 {
		respondErrorDetails(w, r, core.ErrNoRecords, http.StatusUnprocessableEntity, result)
		return
	}

	s.setSession(w, result.SessionID)
	writeJSON(w, http.StatusOK, result)
}

// uploadSources adapts multipart file headers to parser sources.
func uploadSources(headers []*multipart.FileHeader) []workbook.Source {
	sources := make([]workbook.Source, 0, len(headers))
	for _, fh := range headers {
		sources = append(sources, workbook.Source{
			Name: cleanFilename(fh.Filename),
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return sources
}

// cleanFilename drops any client-supplied directory components.
func cleanFilename(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

// handleList returns the caller's collection. A request without a session
// gets an empty collection; an expired one gets SES001.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sessionID := core.SessionIDFromContext(r.Context())
	if sessionID == "" {
		writeJSON(w, http.StatusOK, newScheduleResponse("", nil))
		return
	}

	records, err := s.service.Records(r.Context(), sessionID)
	if err != nil {
		s.respondSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newScheduleResponse(sessionID, records))
}

// handleDeleteRows removes the rows listed in the selected_rows form field
// ("1,3") and returns the remaining collection.
func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	indices, err := core.ParseRowIndices(r.FormValue(formSelectedRows))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sessionID := core.SessionIDFromContext(r.Context())
	records, err := s.service.DeleteRows(r.Context(), sessionID, indices)
	if err != nil {
		s.respondSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newScheduleResponse(sessionID, records))
}

// handleExportXLSX downloads the collection as a workbook.
// With clear=true the collection is discarded once the file is built.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	sessionID := core.SessionIDFromContext(r.Context())
	data, err := s.service.ExportXLSX(r.Context(), sessionID)
	if err != nil {
		s.respondSessionError(w, r, err)
		return
	}
	s.sendExport(w, r, data, contentTypeXLSX, exportBaseName+workbook.Extension)
}

// handleExportTSV returns the collection as clipboard-ready text.
func (s *Server) handleExportTSV(w http.ResponseWriter, r *http.Request) {
	sessionID := core.SessionIDFromContext(r.Context())
	data, err := s.service.ExportTSV(r.Context(), sessionID)
	if err != nil {
		s.respondSessionError(w, r, err)
		return
	}
	s.sendExport(w, r, data, contentTypeTSV, exportBaseName+".tsv")
}

func (s *Server) sendExport(w http.ResponseWriter, r *http.Request, data []byte, contentType, filename string) {
	if discard, _ := strconv.ParseBool(r.URL.Query().Get("clear")); discard {
		if err := s.service.Discard(r.Context(), core.SessionIDFromContext(r.Context())); err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		s.clearSession(w)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	if _, err := w.Write(data); err != nil {
		logging.FromContext(r.Context()).Debug("export write failed", "error", err)
	}
}

// handleDiscard deletes the caller's collection ("start over").
func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Discard(r.Context(), core.SessionIDFromContext(r.Context())); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.clearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// respondSessionError reports err and, when the collection is gone, clears the
// stale session so the client starts over.
func (s *Server) respondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.clearSession(w)
	}
	respondError(w, r, err, statusFor(err))
}
