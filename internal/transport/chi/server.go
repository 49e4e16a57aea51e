// Package chi is the HTTP transport for the question solving API.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	healthuc "github.com/edusolve/solvex/internal/usecase/health"
	solveruc "github.com/edusolve/solvex/internal/usecase/solver"
)

const maxUploadBytes = 10 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the solve pipeline over HTTP.
type Server struct {
	solver            *solveruc.Service
	health            *healthuc.Service
	logger            *zap.Logger
	errorHandlers     []errorHandler
	tempDir           string
	defaultMaxResults int
}

// NewServer creates an HTTP API server. defaultMaxResults is applied when a
// request omits max_results; zero falls back to the domain ceiling.
func NewServer(solver *solveruc.Service, health *healthuc.Service, defaultMaxResults int, logger *zap.Logger) *Server {
	if defaultMaxResults <= 0 {
		defaultMaxResults = domain.MaxResultsCeiling
	}
	s := &Server{
		solver:            solver,
		health:            health,
		logger:            logger,
		tempDir:           os.TempDir(),
		defaultMaxResults: defaultMaxResults,
	}
	s.errorHandlers = []errorHandler{
		extractionFailedHandler,
		sentinelHandler(domain.ErrNoInput, http.StatusBadRequest),
	}
	return s
}

// Routes mounts the API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/solve", s.Solve)
	r.Get("/health", s.HealthCheck)
	r.Get("/status", s.Status)
	r.Get("/metrics", s.Metrics)
}

type solveRequest struct {
	Text       string `json:"text"`
	MaxResults int    `json:"max_results"`
}

// Solve handles POST /api/v1/solve. The question arrives either as JSON
// with a text field or as a multipart form carrying an image upload.
func (s *Server) Solve(w http.ResponseWriter, r *http.Request) {
	q, cleanup, err := s.parseQuery(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error(), "")
		return
	}

	resp, err := s.solver.Solve(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseQuery extracts the question from the request. The returned cleanup
// removes any temp file the upload was spooled to and is safe to call on
// every exit path.
func (s *Server) parseQuery(r *http.Request) (domain.Query, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.HasPrefix(mediaType, "multipart/") {
		return s.parseMultipart(r)
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return domain.Query{}, nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return domain.Query{}, nil, domain.ErrNoInput
	}
	return domain.NewTextQuery(req.Text, s.maxResults(req.MaxResults)), nil, nil
}

// maxResults substitutes the configured default when the client sent none.
func (s *Server) maxResults(requested int) int {
	if requested <= 0 {
		return s.defaultMaxResults
	}
	return requested
}

func (s *Server) parseMultipart(r *http.Request) (domain.Query, func(), error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.Query{}, nil, err
	}

	requested, _ := strconv.Atoi(r.FormValue("max_results"))
	maxResults := s.maxResults(requested)

	file, header, err := r.FormFile("image")
	if err != nil {
		// No image; fall back to the text field.
		text := strings.TrimSpace(r.FormValue("text"))
		if text == "" {
			return domain.Query{}, nil, domain.ErrNoInput
		}
		return domain.NewTextQuery(text, maxResults), nil, nil
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".png"
	}
	path := filepath.Join(s.tempDir, "solvex-"+uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return domain.Query{}, nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("temp image cleanup failed", zap.String("path", path), zap.Error(err))
		}
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return domain.Query{}, cleanup, err
	}
	if err := dst.Close(); err != nil {
		return domain.Query{}, cleanup, err
	}

	return domain.NewImageQuery(path, maxResults), cleanup, nil
}

// HealthCheck handles GET /health. Liveness only.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status handles GET /status with per-dependency availability.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Snapshot(r.Context()))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error(), "")
		return true
	}
}

// extractionFailedHandler reports a total OCR failure with the backend
// detail preserved for the client.
func extractionFailedHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrExtractionFailed) {
		return false
	}
	details := strings.TrimPrefix(err.Error(), domain.ErrExtractionFailed.Error())
	details = strings.TrimPrefix(details, ": ")
	writeError(w, http.StatusInternalServerError, domain.ErrExtractionFailed.Error(), details)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", "")
}
