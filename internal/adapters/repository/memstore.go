package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ubrstats/ubr/internal/domain/model"
	"github.com/ubrstats/ubr/pkg/metrics"
)

// season holds one season's immutable data set. Snapshots are indexed by
// batter id for point lookups; order is materialized lazily for scans.
type season struct {
	byBatter map[int64]model.PlayerSeasonSnapshot
	ordered  []model.PlayerSeasonSnapshot
	pitches  []model.PitchEvent
}

// MemStore is an in-memory SnapshotStore and PitchStore. Season data is
// replaced wholesale and read concurrently; a single RWMutex is enough since
// loads happen once at startup and reads dominate.
type MemStore struct {
	mu      sync.RWMutex
	seasons map[int]*season
}

var (
	_ SnapshotStore = (*MemStore)(nil)
	_ PitchStore    = (*MemStore)(nil)
)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{seasons: make(map[int]*season)}
}

func (s *MemStore) seasonLocked(year int) *season {
	if sn, ok := s.seasons[year]; ok {
		return sn
	}
	sn := &season{byBatter: make(map[int64]model.PlayerSeasonSnapshot)}
	s.seasons[year] = sn
	return sn
}

// PutSnapshots replaces the snapshot set for a season.
func (s *MemStore) PutSnapshots(ctx context.Context, year int, snaps []model.PlayerSeasonSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := s.seasonLocked(year)
	sn.byBatter = make(map[int64]model.PlayerSeasonSnapshot, len(snaps))
	for _, snap := range snaps {
		sn.byBatter[snap.BatterID] = snap
	}
	ordered := make([]model.PlayerSeasonSnapshot, 0, len(sn.byBatter))
	for _, snap := range sn.byBatter {
		ordered = append(ordered, snap)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].BatterID < ordered[j].BatterID })
	sn.ordered = ordered

	metrics.UpdateSnapshotsTotal(s.countSnapshotsLocked())
	metrics.UpdateSeasonsLoaded(len(s.seasons))
	return nil
}

// Snapshot returns one batter's snapshot for a season.
func (s *MemStore) Snapshot(ctx context.Context, year int, batterID int64) (model.PlayerSeasonSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn, ok := s.seasons[year]
	if !ok || len(sn.byBatter) == 0 {
		return model.PlayerSeasonSnapshot{}, ErrSeasonNotLoaded
	}
	snap, ok := sn.byBatter[batterID]
	if !ok {
		return model.PlayerSeasonSnapshot{}, ErrNotFound
	}
	return snap, nil
}

// Snapshots returns all snapshots for a season, ordered by batter id.
func (s *MemStore) Snapshots(ctx context.Context, year int) ([]model.PlayerSeasonSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn, ok := s.seasons[year]
	if !ok || len(sn.byBatter) == 0 {
		return nil, ErrSeasonNotLoaded
	}
	out := make([]model.PlayerSeasonSnapshot, len(sn.ordered))
	copy(out, sn.ordered)
	return out, nil
}

// PutPitches replaces the pitch set for a season.
func (s *MemStore) PutPitches(ctx context.Context, year int, pitches []model.PitchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := s.seasonLocked(year)
	sn.pitches = make([]model.PitchEvent, len(pitches))
	copy(sn.pitches, pitches)

	metrics.UpdatePitchesTotal(s.countPitchesLocked())
	metrics.UpdateSeasonsLoaded(len(s.seasons))
	return nil
}

// Pitches returns all stored pitches for a season.
func (s *MemStore) Pitches(ctx context.Context, year int) ([]model.PitchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn, ok := s.seasons[year]
	if !ok || sn.pitches == nil {
		return nil, ErrSeasonNotLoaded
	}
	out := make([]model.PitchEvent, len(sn.pitches))
	copy(out, sn.pitches)
	return out, nil
}

// Seasons returns the loaded seasons in ascending order.
func (s *MemStore) Seasons(ctx context.Context) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := make([]int, 0, len(s.seasons))
	for y := range s.seasons {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Count returns the total number of snapshots across seasons.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countSnapshotsLocked()
}

// CountPitches returns the total number of pitches across seasons.
func (s *MemStore) CountPitches(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countPitchesLocked()
}

func (s *MemStore) countSnapshotsLocked() int {
	n := 0
	for _, sn := range s.seasons {
		n += len(sn.byBatter)
	}
	return n
}

func (s *MemStore) countPitchesLocked() int {
	n := 0
	for _, sn := range s.seasons {
		n += len(sn.pitches)
	}
	return n
}
