// Package server exposes the router over a small JSON HTTP API. This is the
// boundary the conversational layer and the execution layer call; the server
// holds no routing logic of its own.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/zen-systems/helmsman/pkg/metrics"
	"github.com/zen-systems/helmsman/pkg/router"
	"github.com/zen-systems/helmsman/pkg/task"
)

// Server wires the router into an http.Handler.
type Server struct {
	router *router.Router
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a server around the router.
func New(r *router.Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{router: r, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /v1/route", s.handleRoute)
	s.mux.HandleFunc("POST /v1/outcomes", s.handleOutcome)
	s.mux.HandleFunc("GET /v1/stats", s.handleStats)
	s.mux.HandleFunc("POST /v1/discover", s.handleDiscover)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RouteRequest is the body of POST /v1/route.
type RouteRequest struct {
	Message     string           `json:"message"`
	History     []task.Turn      `json:"history,omitempty"`
	Preferences task.Preferences `json:"preferences,omitempty"`
}

// RouteResponse is the body of a successful routing decision.
type RouteResponse struct {
	BackendID string       `json:"backend_id"`
	Profile   task.Profile `json:"profile"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, id, err := s.router.Decide(req.Message, req.History, req.Preferences)
	if err != nil {
		if errors.Is(err, router.ErrNoCandidates) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, RouteResponse{BackendID: id, Profile: profile})
}

// OutcomeRequest is the body of POST /v1/outcomes.
type OutcomeRequest struct {
	BackendID       string   `json:"backend_id"`
	TaskType        string   `json:"task_type"`
	Domain          string   `json:"domain"`
	LatencyMs       int64    `json:"latency_ms"`
	PromptUnits     int      `json:"prompt_units"`
	CompletionUnits int      `json:"completion_units"`
	Cost            float64  `json:"cost"`
	Success         bool     `json:"success"`
	QualityScore    *float64 `json:"quality_score,omitempty"`
}

func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request) {
	var req OutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BackendID == "" {
		writeError(w, http.StatusBadRequest, "backend_id is required")
		return
	}

	s.router.RecordOutcome(metrics.Outcome{
		BackendID:       req.BackendID,
		TaskType:        req.TaskType,
		Domain:          req.Domain,
		LatencyMs:       req.LatencyMs,
		PromptUnits:     req.PromptUnits,
		CompletionUnits: req.CompletionUnits,
		Cost:            req.Cost,
		Timestamp:       time.Now().UTC(),
		Success:         req.Success,
		QualityScore:    req.QualityScore,
	})

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Stats())
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	if err := s.router.Discover(r.Context()); err != nil {
		// Discovery failure is non-fatal by contract; report it without
		// failing the request.
		s.logger.Warn("discovery run failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]int{"registered": s.router.Registry().Len()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.router.Registry().Len() == 0 {
		writeError(w, http.StatusServiceUnavailable, "no backends registered")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
