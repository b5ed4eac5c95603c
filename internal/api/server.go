// Package api exposes manifest validation over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pyrite/pkg/buildinfo"
	pyerrors "github.com/matzehuels/pyrite/pkg/errors"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/report"
)

// maxManifestSize bounds uploaded manifest bodies. Real pyproject.toml
// files are a few KB; anything beyond this is abuse.
const maxManifestSize = 1 << 20

// Server validates uploaded manifests and serves stored reports.
type Server struct {
	logger *log.Logger
	store  report.Store // nil disables persistence
	router chi.Router
}

// NewServer creates a Server. Pass a nil store to disable report
// persistence; validation still works, reports are just not retained.
func NewServer(logger *log.Logger, store report.Store) *Server {
	s := &Server{logger: logger, store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/validate", s.handleValidate)
	r.Get("/v1/reports", s.handleListReports)
	r.Get("/v1/reports/{id}", s.handleGetReport)

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleValidate parses and validates the request body as pyproject.toml
// and returns the findings report. Malformed TOML is a 400; a manifest
// with validation errors still returns 200 with the findings listed.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxManifestSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, pyerrors.ErrCodeInvalidInput, "read request body")
		return
	}

	m, err := manifest.Parse(body)
	if err != nil {
		s.logger.Debug("manifest rejected", "error", err)
		writeError(w, http.StatusBadRequest, pyerrors.GetCode(err), pyerrors.UserMessage(err))
		return
	}

	rep := report.New(report.KindCheck, m)
	rep.Findings = manifest.Validate(m)

	if s.store != nil {
		if err := s.store.Save(r.Context(), rep); err != nil {
			s.logger.Error("persist report", "id", rep.ID, "error", err)
		}
	}

	s.logger.Info("validated manifest",
		"project", rep.Project,
		"errors", len(rep.Findings.Errors()),
		"warnings", len(rep.Findings.Warnings()))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, pyerrors.ErrCodeUnsupported, "report store not configured")
		return
	}
	reports, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list reports", "error", err)
		writeError(w, http.StatusInternalServerError, pyerrors.ErrCodeInternal, "list reports")
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, pyerrors.ErrCodeUnsupported, "report store not configured")
		return
	}
	id := chi.URLParam(r, "id")
	rep, err := s.store.Get(r.Context(), id)
	if errors.Is(err, report.ErrNotFound) {
		writeError(w, http.StatusNotFound, pyerrors.ErrCodeNotFound, "no such report")
		return
	}
	if err != nil {
		s.logger.Error("get report", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, pyerrors.ErrCodeInternal, "get report")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code pyerrors.Code, msg string) {
	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": msg,
	})
}
