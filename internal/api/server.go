package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/standardmorph/standardmorph/pkg/pipeline"
	"github.com/standardmorph/standardmorph/pkg/report"
	"github.com/standardmorph/standardmorph/pkg/store"
)

// maxUploadBytes caps the accepted SWC upload size.
const maxUploadBytes = 64 << 20

// Server wires the pipeline and report store into an HTTP handler.
type Server struct {
	runner      *pipeline.Runner
	reports     store.Store
	logger      *log.Logger
	toolVersion string
}

// NewServer creates a server. A nil store falls back to in-memory storage.
func NewServer(runner *pipeline.Runner, reports store.Store, logger *log.Logger, toolVersion string) *Server {
	if reports == nil {
		reports = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:      runner,
		reports:     reports,
		logger:      logger,
		toolVersion: toolVersion,
	}
}

// Router builds the route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/validate", s.handleValidate)
	r.Get("/reports", s.handleListReports)
	r.Get("/reports/{id}", s.handleGetReport)
	r.Get("/reports/{id}/html", s.handleReportHTML)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.toolVersion})
}

// handleValidate accepts a multipart upload under the "file" field, runs the
// pipeline on it, stores the report, and returns it as JSON.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	// The pipeline validates by path and the filename convention check needs
	// the original basename, so the upload lands in a scratch directory
	// under its own name.
	dir, err := os.MkdirTemp("", "standardmorph-upload-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(inputPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dst.Close()

	opts, err := s.optionsFromRequest(r, inputPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	// Stored reports carry the upload's basename, not the scratch path.
	rep := result.Report
	rep.InputFile = filepath.Base(header.Filename)
	if err := s.reports.Put(r.Context(), rep); err != nil {
		s.logger.Error("store report", "id", rep.ID, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("validated upload",
		"file", rep.InputFile,
		"findings", len(rep.Findings),
		"report", rep.ID)
	writeJSON(w, http.StatusOK, rep)
}

// optionsFromRequest maps query parameters onto pipeline options.
func (s *Server) optionsFromRequest(r *http.Request, inputPath string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		InputPath:   inputPath,
		Delimiter:   q.Get("delimiter"),
		Convention:  q.Get("convention"),
		ToolVersion: s.toolVersion,
		Formats:     []string{pipeline.FormatJSON},
		Logger:      s.logger,
	}

	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, fmt.Errorf("invalid threshold: %q", v)
		}
		opts.SomaChildrenDistanceThreshold = f
	}
	if v := q.Get("details"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid details flag: %q", v)
		}
		opts.IncludeNodeDetails = b
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid refresh flag: %q", v)
		}
		opts.Refresh = b
	}
	return opts, nil
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %q", v))
			return
		}
		limit = n
	}

	reports, err := s.reports.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w, rep); err != nil {
		s.logger.Error("render report html", "id", rep.ID, "err", err)
	}
}

// lookup fetches the report named by the id route parameter, writing the
// error response itself on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	id := chi.URLParam(r, "id")
	rep, err := s.reports.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("report %s not found", id))
		return report.Report{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return report.Report{}, false
	}
	return rep, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
