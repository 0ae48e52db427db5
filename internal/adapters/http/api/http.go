// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/wcag/internal/app"
	repository "github.com/okian/wcag/internal/adapters/repository"
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/suggest"
	"github.com/okian/wcag/internal/domain/types"
)

// maxBodyBytes bounds request bodies; extraction texts may be whole stylesheets.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ContrastDependencies
	PaletteDependencies
	AuditDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	contrastHandler *ContrastHandler
	paletteHandler  *PaletteHandler
	auditsHandler   *AuditsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		contrastHandler: NewContrastHandler(deps),
		paletteHandler:  NewPaletteHandler(deps),
		auditsHandler:   NewAuditsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/contrast", MetricsMiddleware(s.contrastHandler.HandleContrast, "contrast"))
	mux.HandleFunc("/suggest", MetricsMiddleware(s.contrastHandler.HandleSuggest, "suggest"))
	mux.HandleFunc("/extract", MetricsMiddleware(s.paletteHandler.HandleExtract, "extract"))
	mux.HandleFunc("/substitute", MetricsMiddleware(s.paletteHandler.HandleSubstitute, "substitute"))
	mux.HandleFunc("/replacements", MetricsMiddleware(s.paletteHandler.HandleReplacements, "replacements"))
	mux.HandleFunc("/audits", MetricsMiddleware(s.auditsHandler.HandleAudits, "audits"))
	mux.HandleFunc("/audits/", MetricsMiddleware(s.auditsHandler.HandleGetAudit, "audit"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}

// writeFailure maps a service error to its status and code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, color.ErrInvalidColorFormat):
		writeError(w, http.StatusBadRequest, "invalid_color", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, contrast.ErrUnknownCategory),
		errors.Is(err, suggest.ErrUnknownStrategy),
		errors.Is(err, suggest.ErrUnknownDirection),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidAudit),
		errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields are rejected so typos in optional fields do not pass silently.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
