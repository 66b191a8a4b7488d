// Package server exposes the analysis engine over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/cache"
	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
	"github.com/KaramelBytes/tabinsight-cli/internal/report"
)

const defaultMaxBody = 32 << 20

// Config holds server configuration
type Config struct {
	Addr         string
	Options      analysis.Options
	CacheEntries int
	MaxBodyBytes int64
	// AccessLog enables the chi request logger.
	AccessLog bool
}

// Server serves /healthz and /v1/analyze.
type Server struct {
	cfg    Config
	router *chi.Mux
	cache  *cache.Cache
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBody
	}
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		cache:  cache.New(cfg.CacheEntries, nil),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.cfg.AccessLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/cache", s.handleCacheStats)
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log := logging.WithComponent("server")
	log.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

// handleAnalyze accepts a JSON array of row objects, delimited text
// (text/csv, text/tab-separated-values, text/plain) or a multipart upload in
// field "file". The response format comes from ?format= (default json).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := report.FormatJSON
	if v := q.Get("format"); v != "" {
		f, err := report.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format = f
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	ds, err := s.readDataset(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	opt := s.cfg.Options
	if v := q.Get("value"); v != "" {
		opt.ValueColumn = v
	}
	if v := q.Get("label"); v != "" {
		opt.LabelColumn = v
	}
	if v := q.Get("category"); v != "" {
		opt.CategoryColumn = v
	}
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("top must be a non-negative integer"))
			return
		}
		opt.CategoryTopN = n
	}

	m, err := s.cache.Analyze(ds, opt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logging.WithDataset(ds.Name).Debug("analyzed", "rows", m.Rows, "valid", m.TotalRecords, "insights", len(m.Insights))

	var buf bytes.Buffer
	if err := report.Render(&buf, m, format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) readDataset(r *http.Request) (*dataset.Dataset, error) {
	name := r.URL.Query().Get("name")
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mt = "application/json"
	}
	if mt == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, &parser.ParseError{Path: "upload", Err: fmt.Errorf("multipart field \"file\": %w", err)}
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return parser.ParseBytes(hdr.Filename, data, parser.Options{SheetName: r.URL.Query().Get("sheet")})
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "request"
	}
	switch mt {
	case "application/json":
		return parser.ParseBytes(name+".json", body, parser.Options{})
	case "text/csv":
		return parser.ParseBytes(name+".csv", body, parser.Options{})
	case "text/tab-separated-values":
		return parser.ParseBytes(name+".tsv", body, parser.Options{})
	case "text/plain":
		return parser.ParseText(name, string(body))
	}
	return nil, fmt.Errorf("%w: content type %s", parser.ErrUnsupported, mt)
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
