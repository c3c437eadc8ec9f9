// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ubrstats/ubr/internal/domain/model"
)

// VPDependencies defines the interface for veteran presence reads.
type VPDependencies interface {
	VeteranPresenceAll(ctx context.Context, season int) ([]model.VeteranPresence, error)
	VeteranPresence(ctx context.Context, season int, batterID int64) (model.VeteranPresence, error)
}

// VPHandler handles veteran presence requests.
type VPHandler struct {
	deps VPDependencies
}

// NewVPHandler creates a new veteran presence handler.
func NewVPHandler(deps VPDependencies) *VPHandler {
	return &VPHandler{deps: deps}
}

// HandleGetAll handles GET /metrics/vp?season=YYYY requests. Season is
// optional; the latest loaded season is served when omitted.
func (h *VPHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entries, err := h.deps.VeteranPresenceAll(r.Context(), season)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetByID handles GET /metrics/vp/{batter_id}?season=YYYY requests.
func (h *VPHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/metrics/vp/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	batterID, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	season, err := seasonParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	entry, err := h.deps.VeteranPresence(r.Context(), season, batterID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
