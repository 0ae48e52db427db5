package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/wcag/internal/domain/types"
)

// ContrastDependencies defines the single-pair operations.
type ContrastDependencies interface {
	Evaluate(ctx context.Context, req types.ContrastRequest) (types.ContrastResponse, error)
	Suggest(ctx context.Context, req types.SuggestRequest) (types.SuggestResponse, error)
}

// ContrastHandler handles evaluation and suggestion requests.
type ContrastHandler struct {
	deps ContrastDependencies
}

// NewContrastHandler creates a new contrast handler.
func NewContrastHandler(deps ContrastDependencies) *ContrastHandler {
	return &ContrastHandler{deps: deps}
}

// HandleContrast handles POST /contrast requests. GET is accepted with
// fg, bg and category query parameters for quick checks from a browser.
func (h *ContrastHandler) HandleContrast(w http.ResponseWriter, r *http.Request) {
	const op = "api.contrast"
	var req types.ContrastRequest
	switch r.Method {
	case http.MethodPost:
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req = types.ContrastRequest{
			Foreground: strings.TrimSpace(q.Get("fg")),
			Background: strings.TrimSpace(q.Get("bg")),
			Category:   strings.TrimSpace(q.Get("category")),
		}
	default:
		http.NotFound(w, r)
		return
	}

	res, err := h.deps.Evaluate(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSuggest handles POST /suggest requests.
func (h *ContrastHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	const op = "api.suggest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.SuggestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Suggest(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
