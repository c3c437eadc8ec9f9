// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ubrstats/ubr/internal/adapters/statsapi"
	service "github.com/ubrstats/ubr/internal/app"
	"github.com/ubrstats/ubr/internal/domain/model"
)

// Season bounds accepted from requests.
const (
	minSeason = 1900
	maxSeason = 2100
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	VeteranPresenceAll(ctx context.Context, season int) ([]model.VeteranPresence, error)
	VeteranPresence(ctx context.Context, season int, batterID int64) (model.VeteranPresence, error)
	UmpireBatterReport(ctx context.Context, season int, batterID, umpireID int64, params service.ClassifyParams) (model.UmpireBatterReport, error)
	Borderline(ctx context.Context, season int, params service.ClassifyParams) (service.BorderlineSummary, error)
	SearchPlayers(ctx context.Context, name string) ([]statsapi.Person, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	vpHandler         *VPHandler
	ubrHandler        *UBRHandler
	borderlineHandler *BorderlineHandler
	playersHandler    *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		vpHandler:         NewVPHandler(deps),
		ubrHandler:        NewUBRHandler(deps),
		borderlineHandler: NewBorderlineHandler(deps),
		playersHandler:    NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/metrics/vp", MetricsMiddleware(s.vpHandler.HandleGetAll, "vp_all"))
	mux.HandleFunc("/metrics/vp/", MetricsMiddleware(s.vpHandler.HandleGetByID, "vp_by_id"))
	mux.HandleFunc("/metrics/ubr", MetricsMiddleware(s.ubrHandler.HandleGet, "ubr"))
	mux.HandleFunc("/metrics/borderline", MetricsMiddleware(s.borderlineHandler.HandleGet, "borderline"))
	mux.HandleFunc("/players/search", MetricsMiddleware(s.playersHandler.HandleSearch, "players_search"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// seasonParam parses an optional ?season query parameter. Zero means the
// caller omitted it; the service substitutes the latest loaded season.
func seasonParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return 0, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: season must be an integer", ErrBadRequest)
	}
	if season < minSeason || season > maxSeason {
		return 0, fmt.Errorf("%w: season must be in [%d, %d]", ErrBadRequest, minSeason, maxSeason)
	}
	return season, nil
}

// classifyParams parses the optional per-request classifier tunables
// edge_margin_ft and include_ball_diameter.
func classifyParams(r *http.Request) (service.ClassifyParams, error) {
	var params service.ClassifyParams
	q := r.URL.Query()

	if raw := q.Get("edge_margin_ft"); raw != "" {
		margin, err := strconv.ParseFloat(raw, 64)
		if err != nil || margin <= 0 {
			return params, fmt.Errorf("%w: edge_margin_ft must be a positive number", ErrBadRequest)
		}
		params.EdgeMarginFt = &margin
	}
	if raw := q.Get("include_ball_diameter"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("%w: include_ball_diameter must be a boolean", ErrBadRequest)
		}
		params.IncludeBallDiameter = &include
	}
	return params, nil
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return err != nil && (service.IsNotFound(err) || errors.Is(err, ErrNotFound))
}
