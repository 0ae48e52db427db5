package api

import (
	"context"
	"net/http"

	"github.com/okian/wcag/internal/domain/types"
)

// PaletteDependencies defines the text scanning operations.
type PaletteDependencies interface {
	Extract(ctx context.Context, req types.ExtractRequest) (types.ExtractResponse, error)
	Substitute(ctx context.Context, req types.SubstituteRequest) (types.SubstituteResponse, error)
	Replacements() map[string]string
}

// PaletteHandler handles color extraction and substitution.
type PaletteHandler struct {
	deps PaletteDependencies
}

// NewPaletteHandler creates a new palette handler.
func NewPaletteHandler(deps PaletteDependencies) *PaletteHandler {
	return &PaletteHandler{deps: deps}
}

// HandleExtract handles POST /extract requests.
func (h *PaletteHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	const op = "api.extract"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.ExtractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Extract(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSubstitute handles POST /substitute requests.
func (h *PaletteHandler) HandleSubstitute(w http.ResponseWriter, r *http.Request) {
	const op = "api.substitute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.SubstituteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Substitute(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleReplacements handles GET /replacements requests.
func (h *PaletteHandler) HandleReplacements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Replacements())
}
