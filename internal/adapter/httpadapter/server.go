package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/codec"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
)

// maxBodyBytes bounds the size of a single observation request.
const maxBodyBytes = 64 << 10

// Calculator computes thermal indices for one observation.
type Calculator interface {
	Calculate(ctx context.Context, rec domain.RawObservation) (domain.EnrichedObservation, error)
}

// Server exposes health, readiness, metrics, and on-demand index endpoints.
type Server struct {
	httpServer *http.Server
	calc       Calculator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/indices routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, calc Calculator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		calc:   calc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/indices", s.handleIndices)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleIndices decodes one JSON observation and responds with its enriched
// form, encoded as JSON or, with ?format=msgpack, MessagePack.
func (s *Server) handleIndices(w http.ResponseWriter, r *http.Request) {
	out, err := codec.ForName(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var rec domain.RawObservation
	if err := (codec.JSON{}).Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), &rec); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	enriched, err := s.calc.Calculate(r.Context(), rec)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidObservation) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	var buf bytes.Buffer
	if err := out.Encode(&buf, enriched); err != nil {
		s.logger.Error("encode indices response", "station_id", rec.StationID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write indices response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = (codec.JSON{}).Encode(w, map[string]string{"error": err.Error()})
}
