// Package server exposes table metadata and query rendering over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gopsql/dqb"
	"github.com/gopsql/dqb/catalog"
	"github.com/gopsql/logger"
	"golang.org/x/sync/errgroup"
)

// Config holds what the server needs to answer requests.
type Config struct {
	Source catalog.Source
	// Formatted makes POST /api/query render formatted SQL unless the
	// request sets ?formatted=false.
	Formatted bool
	Listen    string
	Logger    logger.Logger
}

// Request bodies of POST /api/query are limited to 1 MiB.
const maxBodyBytes = 1 << 20

type Server struct {
	source    catalog.Source
	formatted bool
	listen    string
	logger    logger.Logger
}

type (
	queryResponse struct {
		SQL string `json:"sql"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func New(cfg Config) *Server {
	return &Server{
		source:    cfg.Source,
		formatted: cfg.Formatted,
		listen:    cfg.Listen,
		logger:    cfg.Logger,
	}
}

// Handler returns the HTTP routes:
//
//	GET  /healthz
//	GET  /api/metadata          schema -> table -> columns
//	GET  /api/tables            TABLE -> column names
//	GET  /api/tables/{table}    column names of one table
//	POST /api/query             dqb.Definition -> {"sql": "..."}
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metadata", s.metadata)
		r.Get("/tables", s.tables)
		r.Get("/tables/{table}", s.table)
		r.Post("/query", s.query)
	})
	return r
}

// Serve listens on the configured address until ctx is done, then shuts
// the server down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.listen,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.log("dqb: listening on", s.listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log("dqb: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metadata(w http.ResponseWriter, r *http.Request) {
	schemas, err := s.source.Read(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schemas)
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	schemas, err := s.source.Read(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, schemas.TableMetadata())
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) {
	schemas, err := s.source.Read(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := strings.ToUpper(chi.URLParam(r, "table"))
	columns, ok := schemas.TableMetadata()[name]
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "table " + name + " not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, columns)
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	formatted := s.formatted
	if v := r.URL.Query().Get("formatted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid formatted parameter: " + v})
			return
		}
		formatted = b
	}

	var def dqb.Definition
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "query definition exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query definition: " + err.Error()})
		return
	}

	schemas, err := s.source.Read(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	b := dqb.New(schemas.TableMetadata(), s.logger)
	if err := def.Apply(b); err != nil {
		s.writeError(w, err)
		return
	}
	var sql string
	if formatted {
		sql, err = b.GenerateFormattedSQL()
	} else {
		sql, err = b.GenerateSQL()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, queryResponse{SQL: sql})
}

func (s *Server) log(args ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(args...)
}

// Builder errors map to 400. Anything else comes from reading the catalog
// and maps to 502.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dqb.ErrUnsupportedOperator), errors.Is(err, dqb.ErrNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log("dqb: write response:", err)
	}
}
