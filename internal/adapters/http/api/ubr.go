// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	service "github.com/ubrstats/ubr/internal/app"
	"github.com/ubrstats/ubr/internal/domain/model"
)

// UBRDependencies defines the interface for umpire-batter report reads.
type UBRDependencies interface {
	UmpireBatterReport(ctx context.Context, season int, batterID, umpireID int64, params service.ClassifyParams) (model.UmpireBatterReport, error)
}

// UBRHandler handles umpire-batter report requests.
type UBRHandler struct {
	deps UBRDependencies
}

// NewUBRHandler creates a new report handler.
func NewUBRHandler(deps UBRDependencies) *UBRHandler {
	return &UBRHandler{deps: deps}
}

// HandleGet handles GET /metrics/ubr?batter_id=&umpire_id=&season= requests.
// Season is required here; the report is a per-season slice by definition.
// Classifier tunables may be overridden per request via edge_margin_ft and
// include_ball_diameter.
func (h *UBRHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	batterID, err := strconv.ParseInt(q.Get("batter_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: batter_id must be an integer", ErrBadRequest))
		return
	}
	umpireID, err := strconv.ParseInt(q.Get("umpire_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: umpire_id must be an integer", ErrBadRequest))
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if season == 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: season is required", ErrBadRequest))
		return
	}
	params, err := classifyParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rep, err := h.deps.UmpireBatterReport(r.Context(), season, batterID, umpireID, params)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
