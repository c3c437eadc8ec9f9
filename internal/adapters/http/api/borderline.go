// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/ubrstats/ubr/internal/app"
)

// BorderlineDependencies defines the interface for season borderline scans.
type BorderlineDependencies interface {
	Borderline(ctx context.Context, season int, params service.ClassifyParams) (service.BorderlineSummary, error)
}

// BorderlineHandler handles borderline summary requests.
type BorderlineHandler struct {
	deps BorderlineDependencies
}

// NewBorderlineHandler creates a new borderline handler.
func NewBorderlineHandler(deps BorderlineDependencies) *BorderlineHandler {
	return &BorderlineHandler{deps: deps}
}

// HandleGet handles GET /metrics/borderline?season=&edge_margin_ft=&include_ball_diameter=
// requests. Tunable sweeps hit this endpoint with varying parameters.
func (h *BorderlineHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	params, err := classifyParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	summary, err := h.deps.Borderline(r.Context(), season, params)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
