package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/CKaviya23/bank-statement-parser/internal/history"
)

// maxUploadSize bounds statement uploads; scanned multi-page statements
// from phones can be large.
const maxUploadSize = int64(50 << 20) // 50MB

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var (
	specialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before they become
// storage paths.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = specialChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(multiSpace.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "statement"
	}
	return base + ext
}

// handleProcessStatement accepts a statement upload, runs it through the
// pipeline and records the result as a run.
func (s *Server) handleProcessStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return
	}

	id := s.idGen.Generate()
	cleanFilename := sanitizeFilename(header.Filename)
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		slog.Error("Error saving statement file", "error", err)
		writeError(w, http.StatusInternalServerError, "Error saving file")
		return
	}

	result := s.pipeline.ProcessData(data, cleanFilename)
	run := &history.Run{
		ID:         id,
		SourceFile: savedPath,
		CreatedAt:  s.clock.Now(),
		Result:     result,
	}
	if err := s.store.SaveRun(run); err != nil {
		slog.Error("Error saving run", "error", err)
		s.storage.Delete(savedPath)
		writeError(w, http.StatusInternalServerError, "Error saving run")
		return
	}

	slog.Info("Processed statement",
		"run_id", id,
		"filename", cleanFilename,
		"transactions", len(result.Fields.Transactions),
		"extractor_used", result.Quality.ExtractorUsed,
	)
	writeJSON(w, http.StatusOK, run)
}

// handleListRuns returns all recorded runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns()
	if err != nil {
		slog.Error("Error listing runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns one recorded run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleGetRunFile serves the original statement document for a run.
func (s *Server) handleGetRunFile(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	data, err := s.storage.Get(run.SourceFile)
	if err != nil {
		slog.Error("Error reading run file", "error", err, "run_id", run.ID)
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(run.SourceFile)))
	w.Write(data)
}

// handleDeleteRun removes a run and its stored document.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.store.GetRun(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	if err := s.storage.Delete(run.SourceFile); err != nil {
		slog.Warn("Failed to delete file", "filename", run.SourceFile, "error", err)
	}
	if err := s.store.DeleteRun(id); err != nil {
		slog.Error("Error deleting run", "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting run")
		return
	}

	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}
