package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/wcag/internal/domain/types"
)

// defaultRecentLimit is the page size of GET /audits without ?limit.
const defaultRecentLimit = 20

// AuditDependencies defines the asynchronous audit operations.
type AuditDependencies interface {
	SubmitAudit(ctx context.Context, req types.AuditRequest) (types.AuditResponse, error)
	Report(ctx context.Context, id string) (types.ReportResponse, error)
	RecentReports(ctx context.Context, limit int) ([]types.ReportResponse, error)
}

// AuditsHandler handles audit submission and report lookups.
type AuditsHandler struct {
	deps AuditDependencies
}

// NewAuditsHandler creates a new audits handler.
func NewAuditsHandler(deps AuditDependencies) *AuditsHandler {
	return &AuditsHandler{deps: deps}
}

// HandleAudits handles POST /audits and GET /audits?limit=N.
func (h *AuditsHandler) HandleAudits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.recent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuditsHandler) submit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_audit"
	var req types.AuditRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ack, err := h.deps.SubmitAudit(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if ack.Duplicate {
		writeJSON(w, http.StatusOK, ack)
		return
	}
	w.Header().Set("Location", "/audits/"+ack.AuditID)
	writeJSON(w, http.StatusAccepted, ack)
}

func (h *AuditsHandler) recent(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_audits"
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		limit = n
	}

	reports, err := h.deps.RecentReports(r.Context(), limit)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleGetAudit handles GET /audits/{audit_id} requests.
func (h *AuditsHandler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_audit"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/audits/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	report, err := h.deps.Report(r.Context(), id)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
