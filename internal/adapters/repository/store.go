// Package repository defines the season data store interfaces and errors.
package repository

import (
	"context"

	"github.com/ubrstats/ubr/internal/domain/model"
)

// SnapshotStore provides access to player season-start snapshots.
type SnapshotStore interface {
	// PutSnapshots replaces the snapshot set for a season.
	PutSnapshots(ctx context.Context, season int, snaps []model.PlayerSeasonSnapshot) error

	// Snapshot returns one batter's snapshot for a season.
	// Returns ErrSeasonNotLoaded or ErrNotFound when absent.
	Snapshot(ctx context.Context, season int, batterID int64) (model.PlayerSeasonSnapshot, error)

	// Snapshots returns all snapshots for a season.
	// Returns ErrSeasonNotLoaded when the season is absent.
	Snapshots(ctx context.Context, season int) ([]model.PlayerSeasonSnapshot, error)

	// Seasons returns the loaded seasons in ascending order.
	Seasons(ctx context.Context) []int

	// Count returns the total number of snapshots across seasons.
	Count(ctx context.Context) int
}

// PitchStore provides access to prepared (stitched, taken) pitch events.
type PitchStore interface {
	// PutPitches replaces the pitch set for a season.
	PutPitches(ctx context.Context, season int, pitches []model.PitchEvent) error

	// Pitches returns all stored pitches for a season.
	// Returns ErrSeasonNotLoaded when the season is absent.
	Pitches(ctx context.Context, season int) ([]model.PitchEvent, error)

	// CountPitches returns the total number of pitches across seasons.
	CountPitches(ctx context.Context) int
}
