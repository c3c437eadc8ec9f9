// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ubrstats/ubr/internal/adapters/statsapi"
)

// PlayersDependencies defines the interface for player name resolution.
type PlayersDependencies interface {
	SearchPlayers(ctx context.Context, name string) ([]statsapi.Person, error)
}

// PlayersHandler handles player search requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleSearch handles GET /players/search?name= requests.
func (h *PlayersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: name is required", ErrBadRequest))
		return
	}
	people, err := h.deps.SearchPlayers(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}
