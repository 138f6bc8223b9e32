// Package server exposes corpus run reports over HTTP.
//
// The server is a local viewer, not a public service: it serves the report
// of the most recent run plus per-document results and rendered reference
// graphs, so failures can be inspected in a browser next to a CI run.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/refgraph"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/report"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

const shutdownTimeout = 5 * time.Second

// Server serves run reports and reference graphs for one corpus.
type Server struct {
	addr       string
	corpusRoot string
	logger     *log.Logger

	mu  sync.RWMutex
	rep *report.Report
}

// New creates a Server for the corpus at corpusRoot, listening on addr.
func New(addr, corpusRoot string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{addr: addr, corpusRoot: corpusRoot, logger: logger}
}

// SetReport installs the report served at /report. Safe to call while the
// server is running; subsequent requests see the new report.
func (s *Server) SetReport(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rep = r
}

func (s *Server) currentReport() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rep
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/report", s.handleReport)
	r.Get("/report/results/*", s.handleResult)
	r.Get("/graph/*", s.handleGraph)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("report server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no run report loaded"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no run report loaded"))
		return
	}
	path := chi.URLParam(r, "*")
	res, ok := rep.Find(path)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no result for %s", path))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleGraph builds the reference graph for one corpus document and serves
// it as JSON, DOT or a rendered SVG depending on the format query parameter.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if err := errors.ValidateSchemaPath(rel); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := schema.ParseFile(filepath.Join(s.corpusRoot, filepath.FromSlash(rel)))
	if err != nil {
		writeError(w, http.StatusNotFound, errors.Wrap(errors.ErrCodeSchemaNotFound, err, "schema %s", rel))
		return
	}
	g := refgraph.Build(doc)

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, g)
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(refgraph.ToDOT(g)))
	case "svg":
		svg, err := refgraph.RenderSVG(r.Context(), refgraph.ToDOT(g))
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "render %s", rel))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "unknown format %q", r.URL.Query().Get("format")))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(errors.GetCode(err)),
			"message": errors.UserMessage(err),
		},
	})
}
