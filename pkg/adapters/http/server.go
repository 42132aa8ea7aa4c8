// Package http exposes the mapping session service over a REST-ish API,
// one route per engine operation.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specloom/specloom/internal/logging"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
	"github.com/specloom/specloom/pkg/session"
)

// Server routes HTTP requests to the session service.
type Server struct {
	svc    *session.Service
	logger *slog.Logger

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler for the session service. Metrics
// are registered on a private registry so multiple handlers can coexist
// in one process.
func NewHandler(svc *session.Service, opts ...Option) http.Handler {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "specloom_http_requests_total",
				Help: "Total HTTP requests by operation and status code",
			},
			[]string{"operation", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "specloom_http_request_duration_seconds",
				Help: "HTTP request duration by operation",
			},
			[]string{"operation"},
		),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(s.requests, s.duration)

	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.instrument("init", s.handleInit))
		r.Get("/", s.instrument("list", s.handleList))

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.instrument("delete", s.handleDelete))
			r.Get("/status", s.instrument("status", s.handleStatus))
			r.Get("/skeleton", s.instrument("skeleton", s.handleSkeleton))
			r.Get("/next", s.instrument("next", s.handleNext))
			r.Post("/decisions", s.instrument("apply", s.handleApply))
			r.Get("/validate", s.instrument("validate", s.handleValidate))
			r.Get("/export", s.instrument("export", s.handleExport))
			r.Get("/nodes/{nodeID}/facts", s.instrument("facts", s.handleFacts))
			r.Get("/nodes/{nodeID}/children", s.instrument("children", s.handleChildren))
		})
	})
	return r
}

// instrument wraps a handler with request counting and timing.
func (s *Server) instrument(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(s.duration.WithLabelValues(operation))
		defer timer.ObserveDuration()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.requests.WithLabelValues(operation, strconv.Itoa(rec.code)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// InitRequest is the POST /sessions body.
type InitRequest struct {
	SessionID string          `json:"sessionId,omitempty"`
	UISystem  string          `json:"uiSystem"`
	Design    json.RawMessage `json:"design"`
}

// InitResponse returns the session ID with its initial status.
type InitResponse struct {
	SessionID string        `json:"sessionId"`
	Status    engine.Status `json:"status"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var body InitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, &domain.ShapeError{Reason: "invalid request body: " + err.Error()})
		return
	}

	ui, err := domain.ParseUISystem(body.UISystem)
	if err != nil {
		s.writeError(w, &domain.ShapeError{Reason: err.Error()})
		return
	}
	if len(body.Design) == 0 {
		s.writeError(w, &domain.ShapeError{Reason: `request is missing "design"`})
		return
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	status, err := s.svc.Init(r.Context(), sessionID, jsonReader(body.Design), ui)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, InitResponse{SessionID: sessionID, Status: status})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.Status(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSkeleton(w http.ResponseWriter, r *http.Request) {
	depth := queryInt(r, "depth", 2)
	sk, err := s.svc.Skeleton(r.Context(), chi.URLParam(r, "sessionID"), r.URL.Query().Get("node"), depth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", 1)
	batch, err := s.svc.Next(r.Context(), chi.URLParam(r, "sessionID"), count)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.svc.Apply(r.Context(), chi.URLParam(r, "sessionID"), payload)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	findings, err := s.svc.Validate(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if findings == nil {
		findings = []domain.Finding{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"findings": findings,
		"ok":       !domain.HasErrors(findings),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	opts := engine.ExportOptions{
		Absorb:  r.URL.Query().Get("absorb") != "false",
		Partial: r.URL.Query().Get("partial") == "true",
	}
	tree, err := s.svc.Export(r.Context(), chi.URLParam(r, "sessionID"), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	facts, err := s.svc.Facts(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "nodeID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facts)
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	children, err := s.svc.Children(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "nodeID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if children == nil {
		children = []domain.Summary{}
	}
	writeJSON(w, http.StatusOK, children)
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	var shapeErr *domain.ShapeError
	var grammarErr *domain.LayoutGrammarError
	var unknownErr *domain.UnknownNodeError
	var incompleteErr *domain.IncompleteTraversalError
	switch {
	case errors.Is(err, domain.ErrStateNotFound), errors.As(err, &unknownErr):
		code = http.StatusNotFound
	case errors.As(err, &shapeErr), errors.As(err, &grammarErr):
		code = http.StatusBadRequest
	case errors.As(err, &incompleteErr):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return buf, nil
}

func jsonReader(raw json.RawMessage) *bytes.Reader {
	return bytes.NewReader(raw)
}
