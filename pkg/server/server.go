// Package server exposes the chart datasets over HTTP as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ccollicutt/chartcsv/pkg/config"
	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/datasets"
	"github.com/ccollicutt/chartcsv/pkg/stats"
)

// Server serves chart records to rendering front-ends.
type Server struct {
	cfg      config.ServerConfig
	logger   *slog.Logger
	router   *chi.Mux
	loader   *csvload.Loader
	catalog  *datasets.Catalog
	gatherer prometheus.Gatherer
}

// New creates a Server. A nil gatherer disables /metrics.
func New(cfg config.ServerConfig, loader *csvload.Loader, catalog *datasets.Catalog, logger *slog.Logger, gatherer prometheus.Gatherer) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   r,
		loader:   loader,
		catalog:  catalog,
		gatherer: gatherer,
	}

	s.routes()
	return s
}

func loggerMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.InfoContext(r.Context(), "request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api/datasets", func(r chi.Router) {
		r.Get("/", s.handleListDatasets)
		r.Get("/{name}", s.handleDataset)
		r.Get("/{name}/stats", s.handleDatasetStats)
	})
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// errorResponse carries a human-readable message for inline display.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.catalog.All())
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}

	records, err := d.Load(r.Context(), s.loader)
	if err != nil {
		s.writeLoadError(w, r, d, err)
		return
	}

	render.JSON(w, r, records)
}

func (s *Server) handleDatasetStats(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookup(w, r)
	if !ok {
		return
	}

	rows, err := d.LoadRows(r.Context(), s.loader)
	if err != nil {
		s.writeLoadError(w, r, d, err)
		return
	}

	render.JSON(w, r, stats.Describe(rows))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (datasets.Dataset, bool) {
	name := chi.URLParam(r, "name")
	d, ok := s.catalog.Lookup(name)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: fmt.Sprintf("unknown dataset %q", name)})
	}
	return d, ok
}

func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, d datasets.Dataset, err error) {
	kind := csvload.ErrorKind(err)
	status := statusForKind(kind)

	s.logger.ErrorContext(r.Context(), "failed to load dataset",
		"dataset", d.Name,
		"path", d.Path,
		"kind", kind,
		"error", err)

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error(), Kind: kind})
}

func statusForKind(kind string) int {
	switch kind {
	case "fetch":
		return http.StatusBadGateway
	case "insufficient_data", "missing_columns", "empty_result":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.ErrorContext(shutdownCtx, "failed to shutdown server", "error", err)
		}
	}()

	s.logger.InfoContext(ctx, "starting server", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}
