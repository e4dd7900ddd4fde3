package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/talentinsight/interview-analyzer/internal/export"
	"github.com/talentinsight/interview-analyzer/internal/ingestion"
	"github.com/talentinsight/interview-analyzer/internal/intake"
	"github.com/talentinsight/interview-analyzer/internal/models"
	"github.com/talentinsight/interview-analyzer/internal/roster"
)

// Server handles HTTP requests
type Server struct {
	store    *roster.Store
	analyzer intake.Analyzer
	files    *ingestion.FileHandler
}

// NewServer creates a new API server
func NewServer(store *roster.Store, analyzer intake.Analyzer, files *ingestion.FileHandler) *Server {
	return &Server{
		store:    store,
		analyzer: analyzer,
		files:    files,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /interviews", s.handleSubmitInterview)
	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("PATCH /candidates/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /media/{file}", s.handleMedia)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "TalentInsight Interview Analyzer",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /interviews":                 "Submit an interview recording for analysis",
			"GET /candidates":                  "List candidates, newest first",
			"GET /candidates/{id}":             "Get a candidate with full analysis",
			"PATCH /candidates/{id}/status":    "Move a candidate to a new status",
			"GET /dashboard":                   "Roster statistics",
			"GET /export":                      "Download the roster as an Excel report",
			"GET /media/{file}":                "Serve a stored recording",
			"GET /health":                      "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// handleSubmitInterview accepts a multipart form with the candidate's name,
// the position, and a single audio/video recording, runs the analysis, and
// stores the resulting candidate.
func (s *Server) handleSubmitInterview(w http.ResponseWriter, r *http.Request) {
	// One clip plus form fields; anything past the clip limit is rejected
	// during validation, not here
	if err := r.ParseMultipartForm(models.MaxMediaBytes + 1<<20); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	mimeType, ok := ingestion.MediaTypeFor(header.Filename)
	if !ok {
		s.respondError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported recording type: %s", filepath.Ext(header.Filename)))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, models.MaxMediaBytes+1))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	clip := &models.MediaClip{
		Data:     data,
		MIMEType: mimeType,
		FileName: filepath.Base(header.Filename),
	}

	form := intake.NewForm(s.analyzer, s.store)
	form.SetName(r.FormValue("name"))
	form.SetPosition(r.FormValue("position"))
	if err := form.AttachUpload(clip, "/media/"+clip.FileName); err != nil {
		s.respondIntakeError(w, err)
		return
	}

	if _, err := s.files.SaveClip(clip); err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store recording: %v", err))
		return
	}

	candidate, err := form.Submit(r.Context())
	if err != nil {
		s.respondIntakeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, candidate)
}

// respondIntakeError maps intake failures onto HTTP status codes
func (s *Server) respondIntakeError(w http.ResponseWriter, err error) {
	var vErr *intake.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, intake.ErrFileTooLarge):
		s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, intake.ErrUnsupportedMediaType):
		s.respondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, intake.ErrSubmissionInProgress):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusBadGateway, err.Error())
	}
}

// handleListCandidates returns the roster, newest first
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.ListAll())
}

// handleGetCandidate returns a single candidate with full analysis
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	candidate, ok := s.store.GetByID(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("candidate %s not found", id))
		return
	}
	s.respondJSON(w, http.StatusOK, candidate)
}

// handleUpdateStatus moves a candidate through the status workflow
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Status models.InterviewStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	candidate, err := s.store.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, candidate)
}

// handleDashboard returns the roster statistics
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.Stats())
}

// handleExport generates the Excel roster report and streams it back
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	tmp, err := os.CreateTemp("", "roster-report-*.xlsx")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create report file: %v", err))
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := export.ExportToExcel(s.store.ListAll(), s.store.Stats(), tmp.Name()); err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate report: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="roster-report.xlsx"`)
	http.ServeFile(w, r, tmp.Name())
}

// handleMedia serves a stored recording by file name
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("file"))

	mimeType, ok := ingestion.MediaTypeFor(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown recording")
		return
	}

	path := filepath.Join(s.files.UploadsDir(), name)
	if _, err := os.Stat(path); err != nil {
		s.respondError(w, http.StatusNotFound, "recording not found")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	http.ServeFile(w, r, path)
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
