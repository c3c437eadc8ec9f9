// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ubrstats/ubr/internal/adapters/cache"
	"github.com/ubrstats/ubr/internal/adapters/repository"
	"github.com/ubrstats/ubr/internal/adapters/statsapi"
	"github.com/ubrstats/ubr/internal/config"
	"github.com/ubrstats/ubr/internal/domain/borderline"
	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/internal/domain/report"
	"github.com/ubrstats/ubr/internal/domain/veteran"
	"github.com/ubrstats/ubr/internal/ingest"
	"github.com/ubrstats/ubr/pkg/logger"
	"github.com/ubrstats/ubr/pkg/metrics"
)

// ClassifyParams are the per-request classifier tunables. Nil fields fall
// back to the service defaults.
type ClassifyParams struct {
	EdgeMarginFt        *float64
	IncludeBallDiameter *bool
}

// Service implements the read API over season stores, the borderline
// classifier, and the veteran score engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	snapshots repository.SnapshotStore
	pitches   repository.PitchStore
	engine    *veteran.Engine
	resolver  *statsapi.Client
	cache     *cache.ScoreCache

	// Classifier defaults (hot-reloadable)
	edgeMarginFt    float64
	includeBallDiam bool

	// Configuration
	scoringConfig veteran.Config
	defaultSeason int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSnapshotStore replaces the default in-memory snapshot store.
func WithSnapshotStore(store repository.SnapshotStore) Option {
	return func(s *Service) {
		if store != nil {
			s.snapshots = store
		}
	}
}

// WithPitchStore replaces the default in-memory pitch store.
func WithPitchStore(store repository.PitchStore) Option {
	return func(s *Service) {
		if store != nil {
			s.pitches = store
		}
	}
}

// WithScoreCache enables the veteran score cache.
func WithScoreCache(c *cache.ScoreCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithResolver sets the player name resolver client.
func WithResolver(r *statsapi.Client) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithScoringConfig replaces the default veteran scoring configuration.
func WithScoringConfig(cfg veteran.Config) Option {
	return func(s *Service) {
		s.scoringConfig = cfg
	}
}

// WithEdgeMargin sets the default borderline edge margin in feet.
func WithEdgeMargin(ft float64) Option {
	return func(s *Service) {
		if ft > 0 {
			s.edgeMarginFt = ft
		}
	}
}

// WithBallDiameter sets whether the default classifier includes the ball
// diameter in the plate half-width.
func WithBallDiameter(include bool) Option {
	return func(s *Service) {
		s.includeBallDiam = include
	}
}

// WithDefaultSeason sets the season served when requests omit one. Zero
// means "latest loaded season".
func WithDefaultSeason(season int) Option {
	return func(s *Service) {
		s.defaultSeason = season
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		edgeMarginFt:    borderline.DefaultEdgeMarginFt,
		includeBallDiam: true,
		scoringConfig:   veteran.DefaultConfig(),
		resolver:        statsapi.NewClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the scoring configuration and initializes components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	engine, err := veteran.New(veteran.WithConfig(s.scoringConfig))
	if err != nil {
		return fmt.Errorf("build score engine: %w", err)
	}
	s.engine = engine

	if s.snapshots == nil || s.pitches == nil {
		mem := repository.NewMemStore()
		if s.snapshots == nil {
			s.snapshots = mem
		}
		if s.pitches == nil {
			s.pitches = mem
		}
	}

	s.started = true
	s.logger.Info(ctx, "ubr service started",
		logger.Float64("edgeMarginFt", s.edgeMarginFt),
		logger.Bool("includeBallDiameter", s.includeBallDiam),
	)
	return nil
}

// Stop shuts the service down. Stores and caches are owned by the caller, so
// there is nothing to release here beyond state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "ubr service stopped")
}

// Reconfigure applies hot-reloadable settings from a freshly loaded config.
// Only the classifier tunables and default season are swapped; stores and
// scoring weights require a restart.
func (s *Service) Reconfigure(ctx context.Context, cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edgeMarginFt = cfg.EdgeMarginFt
	s.includeBallDiam = cfg.IncludeBallDiameter
	s.defaultSeason = cfg.DefaultSeason
	s.logger.Info(ctx, "classifier tunables reconfigured",
		logger.Float64("edgeMarginFt", s.edgeMarginFt),
		logger.Bool("includeBallDiameter", s.includeBallDiam),
	)
}

// classifierFor builds a classifier from the service defaults overlaid with
// per-request parameters. Construction is allocation-cheap, so a fresh
// classifier per request keeps the tunables caller-configurable.
func (s *Service) classifierFor(params ClassifyParams) *borderline.Classifier {
	s.mu.RLock()
	margin := s.edgeMarginFt
	includeBall := s.includeBallDiam
	s.mu.RUnlock()

	if params.EdgeMarginFt != nil {
		margin = *params.EdgeMarginFt
	}
	if params.IncludeBallDiameter != nil {
		includeBall = *params.IncludeBallDiameter
	}
	return borderline.New(
		borderline.WithEdgeMargin(margin),
		borderline.WithBallDiameter(includeBall),
	)
}

// ResolveSeason maps a requested season to a served one: an explicit season
// passes through, zero falls back to the configured default or the latest
// loaded season.
func (s *Service) ResolveSeason(ctx context.Context, season int) (int, error) {
	if season != 0 {
		return season, nil
	}
	s.mu.RLock()
	def := s.defaultSeason
	s.mu.RUnlock()
	if def != 0 {
		return def, nil
	}
	seasons := s.snapshots.Seasons(ctx)
	if len(seasons) == 0 {
		return 0, repository.ErrSeasonNotLoaded
	}
	return seasons[len(seasons)-1], nil
}

// LoadSeason ingests one season: stitches umpire assignments onto raw
// pitches, applies the regular-season taken-pitch filters, and stores both
// the prepared pitches and the snapshots.
func (s *Service) LoadSeason(ctx context.Context, season int, rawPitches []model.PitchEvent, assignments []ingest.UmpireAssignment, snaps []model.PlayerSeasonSnapshot) error {
	prepared := ingest.PrepareSeason(rawPitches, assignments)
	if err := s.pitches.PutPitches(ctx, season, prepared); err != nil {
		return fmt.Errorf("store pitches for %d: %w", season, err)
	}
	if err := s.snapshots.PutSnapshots(ctx, season, snaps); err != nil {
		return fmt.Errorf("store snapshots for %d: %w", season, err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSeason(ctx, season); err != nil {
			s.logger.Warn(ctx, "score cache invalidation failed",
				logger.Int("season", season), logger.Error(err))
		}
	}
	s.logger.Info(ctx, "season loaded",
		logger.Int("season", season),
		logger.Int("pitches", len(prepared)),
		logger.Int("snapshots", len(snaps)),
	)
	return nil
}

// score computes one snapshot's veteran score and records scoring metrics.
func (s *Service) score(snap model.PlayerSeasonSnapshot) float64 {
	start := time.Now()
	vp := s.engine.Score(snap)
	metrics.RecordScoreComputed()
	metrics.RecordScoringLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return vp
}

// VeteranPresenceAll returns the veteran score for every batter with a
// snapshot in the season.
func (s *Service) VeteranPresenceAll(ctx context.Context, season int) ([]model.VeteranPresence, error) {
	year, err := s.ResolveSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.Snapshots(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make([]model.VeteranPresence, len(snaps))
	for i, snap := range snaps {
		out[i] = model.VeteranPresence{
			BatterID: snap.BatterID,
			FullName: snap.FullName,
			Season:   year,
			VP:       s.score(snap),
		}
	}
	return out, nil
}

// VeteranPresence returns the veteran score for one batter. The cache, when
// enabled, short-circuits recomputation; scores remain reproducible from the
// snapshot alone.
func (s *Service) VeteranPresence(ctx context.Context, season int, batterID int64) (model.VeteranPresence, error) {
	year, err := s.ResolveSeason(ctx, season)
	if err != nil {
		return model.VeteranPresence{}, err
	}
	snap, err := s.snapshots.Snapshot(ctx, year, batterID)
	if err != nil {
		return model.VeteranPresence{}, err
	}

	if s.cache != nil {
		if vp, ok := s.cache.Get(ctx, year, batterID); ok {
			return model.VeteranPresence{
				BatterID: snap.BatterID,
				FullName: snap.FullName,
				Season:   year,
				VP:       vp,
			}, nil
		}
	}

	vp := s.score(snap)
	if s.cache != nil {
		s.cache.Put(ctx, year, batterID, vp)
	}
	return model.VeteranPresence{
		BatterID: snap.BatterID,
		FullName: snap.FullName,
		Season:   year,
		VP:       vp,
	}, nil
}

// UmpireBatterReport summarizes borderline calls for a (batter, umpire) pair.
func (s *Service) UmpireBatterReport(ctx context.Context, season int, batterID, umpireID int64, params ClassifyParams) (model.UmpireBatterReport, error) {
	pitches, err := s.pitches.Pitches(ctx, season)
	if err != nil {
		return model.UmpireBatterReport{}, err
	}
	builder := report.NewBuilder(s.classifierFor(params))
	rep := builder.Build(season, batterID, umpireID, pitches)
	metrics.RecordReportBuilt()
	return rep, nil
}

// BorderlineSummary is the season-wide borderline breakdown for one
// classifier setting.
type BorderlineSummary struct {
	Season              int            `json:"season"`
	EdgeMarginFt        float64        `json:"edge_margin_ft"`
	IncludeBallDiameter bool           `json:"include_ball_diameter"`
	TakenPitches        int            `json:"taken_pitches"`
	Borderline          int            `json:"borderline"`
	ByReason            map[string]int `json:"by_reason"`
}

// Borderline classifies a whole season's taken pitches with the given
// tunables and returns the breakdown by triggering edge. Analyses sweeping
// the tunables call this repeatedly with different parameters.
func (s *Service) Borderline(ctx context.Context, season int, params ClassifyParams) (BorderlineSummary, error) {
	year, err := s.ResolveSeason(ctx, season)
	if err != nil {
		return BorderlineSummary{}, err
	}
	pitches, err := s.pitches.Pitches(ctx, year)
	if err != nil {
		return BorderlineSummary{}, err
	}

	c := s.classifierFor(params)
	results := c.Classify(pitches)
	metrics.RecordPitchesClassified(len(pitches))

	summary := BorderlineSummary{
		Season:              year,
		EdgeMarginFt:        c.EdgeMargin(),
		IncludeBallDiameter: c.HalfPlate() == borderline.HalfPlateWithBallFt,
		TakenPitches:        len(pitches),
		Borderline:          len(results),
		ByReason:            make(map[string]int, 3),
	}
	for _, r := range results {
		summary.ByReason[string(r.Reason)]++
		metrics.RecordBorderlineFound(string(r.Reason))
	}
	return summary, nil
}

// SearchPlayers resolves players by name through the MLB Stats API.
func (s *Service) SearchPlayers(ctx context.Context, name string) ([]statsapi.Person, error) {
	return s.resolver.SearchPeople(ctx, name)
}

// IsNotFound reports whether err maps to a 404 for the API layer.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrSeasonNotLoaded)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":               s.started,
		"edge_margin_ft":        s.edgeMarginFt,
		"include_ball_diameter": s.includeBallDiam,
		"cache_enabled":         s.cache != nil,
	}
	if s.started {
		seasons := s.snapshots.Seasons(ctx)
		stats["seasons"] = seasons
		stats["snapshots"] = s.snapshots.Count(ctx)
		stats["pitches"] = s.pitches.CountPitches(ctx)
	}
	return stats
}
